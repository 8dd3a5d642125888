package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestProcess(t *testing.T) {
	t.Run("jpeg keeps format", func(t *testing.T) {
		out, contentType, err := Process(makeJPEG(t, 400, 300))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", contentType)
		assert.NotEmpty(t, out)
	})

	t.Run("png keeps format", func(t *testing.T) {
		out, contentType, err := Process(makePNG(t, 400, 300))
		require.NoError(t, err)
		assert.Equal(t, "image/png", contentType)
		assert.NotEmpty(t, out)
	})

	t.Run("wide image is downscaled to max width", func(t *testing.T) {
		out, _, err := Process(makeJPEG(t, MaxWidth*2, 900))
		require.NoError(t, err)

		w, h := decodeDims(t, out)
		assert.Equal(t, MaxWidth, w)
		assert.Equal(t, 450, h) // oran korunur
	})

	t.Run("small image keeps its dimensions", func(t *testing.T) {
		out, _, err := Process(makePNG(t, 640, 480))
		require.NoError(t, err)

		w, h := decodeDims(t, out)
		assert.Equal(t, 640, w)
		assert.Equal(t, 480, h)
	})

	t.Run("image at exactly max width is untouched", func(t *testing.T) {
		out, _, err := Process(makeJPEG(t, MaxWidth, 900))
		require.NoError(t, err)

		w, _ := decodeDims(t, out)
		assert.Equal(t, MaxWidth, w)
	})

	t.Run("garbage input returns error", func(t *testing.T) {
		_, _, err := Process([]byte("this is not an image"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not decode")
	})

	t.Run("empty input returns error", func(t *testing.T) {
		_, _, err := Process(nil)
		require.Error(t, err)
	})
}
