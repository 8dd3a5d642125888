package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basera_backend/pkg/utils/validation"
)

type fakeStore struct {
	mu    sync.Mutex
	puts  map[string][]byte
	types map[string]string
	fail  map[string]bool // key -> hata döndür
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		puts:  make(map[string][]byte),
		types: make(map[string]string),
		fail:  make(map[string]bool),
	}
}

func (s *fakeStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[key] {
		return "", errors.New("store unavailable")
	}
	s.puts[key] = data
	s.types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts)
}

func identityCompress(data []byte) ([]byte, string, error) {
	return data, "image/webp", nil
}

func failingCompress(data []byte) ([]byte, string, error) {
	return nil, "", errors.New("unsupported format")
}

func testPipeline(store *fakeStore, compress CompressFunc) *Pipeline {
	return &Pipeline{
		Store:    store,
		Compress: compress,
		Key:      func(filename string) string { return filename },
	}
}

func galleryAssets(n int) []Asset {
	assets := make([]Asset, n)
	for i := range assets {
		assets[i] = Asset{
			Filename:    fmt.Sprintf("img-%02d.jpg", i),
			ContentType: "image/jpeg",
			Data:        []byte{byte(i)},
		}
	}
	return assets
}

func TestPipelineProcess(t *testing.T) {
	t.Run("gallery urls preserve input order", func(t *testing.T) {
		store := newFakeStore()
		p := testPipeline(store, identityCompress)

		gallery := galleryAssets(12)
		res, err := p.Process(context.Background(), nil, gallery)
		require.NoError(t, err)
		require.Len(t, res.GalleryURLs, 12)

		for i, url := range res.GalleryURLs {
			assert.Equal(t, fmt.Sprintf("https://cdn.test/img-%02d.jpg", i), url)
		}
	})

	t.Run("cover and gallery both uploaded", func(t *testing.T) {
		store := newFakeStore()
		p := testPipeline(store, identityCompress)

		cover := &Asset{Filename: "cover.jpg", ContentType: "image/jpeg", Data: []byte{1}}
		res, err := p.Process(context.Background(), cover, galleryAssets(5))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/cover.jpg", res.CoverURL)
		assert.Equal(t, 6, store.count())
	})

	t.Run("upload failure aborts the whole submission", func(t *testing.T) {
		store := newFakeStore()
		store.fail["img-03.jpg"] = true
		p := testPipeline(store, identityCompress)

		res, err := p.Process(context.Background(), nil, galleryAssets(8))
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Contains(t, err.Error(), "gallery upload failed")
	})

	t.Run("cover upload failure aborts", func(t *testing.T) {
		store := newFakeStore()
		store.fail["cover.jpg"] = true
		p := testPipeline(store, identityCompress)

		cover := &Asset{Filename: "cover.jpg", ContentType: "image/jpeg", Data: []byte{1}}
		_, err := p.Process(context.Background(), cover, galleryAssets(3))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cover upload failed")
	})

	t.Run("compression failure falls back to original bytes", func(t *testing.T) {
		store := newFakeStore()
		p := testPipeline(store, failingCompress)

		gallery := galleryAssets(3)
		res, err := p.Process(context.Background(), nil, gallery)
		require.NoError(t, err)

		assert.Len(t, res.Fallbacks, 3)
		assert.ElementsMatch(t, []string{"img-00.jpg", "img-01.jpg", "img-02.jpg"}, res.Fallbacks)
		// Orijinal içerik tipi ve byte'lar korunur
		assert.Equal(t, "image/jpeg", store.types["img-00.jpg"])
		assert.Equal(t, []byte{0}, store.puts["img-00.jpg"])
	})

	t.Run("compressed bytes are what gets stored", func(t *testing.T) {
		store := newFakeStore()
		p := testPipeline(store, func(data []byte) ([]byte, string, error) {
			return []byte("compressed"), "image/webp", nil
		})

		_, err := p.Process(context.Background(), nil, galleryAssets(1))
		require.NoError(t, err)
		assert.Equal(t, []byte("compressed"), store.puts["img-00.jpg"])
		assert.Equal(t, "image/webp", store.types["img-00.jpg"])
	})

	t.Run("empty submission yields empty result", func(t *testing.T) {
		store := newFakeStore()
		p := testPipeline(store, identityCompress)

		res, err := p.Process(context.Background(), nil, nil)
		require.NoError(t, err)
		assert.Empty(t, res.CoverURL)
		assert.Empty(t, res.GalleryURLs)
		assert.Equal(t, 0, store.count())
	})
}

// multipartFiles bellek içi bir form kurup dosya başlıklarını döner
func multipartFiles(t *testing.T, contentTypes []string) []*multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for i, ct := range contentTypes {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="gallery_images"; filename="f%d.jpg"`, i))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte{byte(i)})
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r := multipart.NewReader(body, w.Boundary())
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["gallery_images"]
}

func TestCollectGallery(t *testing.T) {
	t.Run("reads accepted files into memory", func(t *testing.T) {
		files := multipartFiles(t, []string{"image/jpeg", "image/png", "image/webp"})
		assets, skipped, err := CollectGallery(files)
		require.NoError(t, err)
		require.Len(t, assets, 3)
		assert.Equal(t, "f0.jpg", assets[0].Filename)
		assert.Equal(t, "image/png", assets[1].ContentType)
		assert.Empty(t, skipped)
	})

	t.Run("drops unsupported mime types and reports their names", func(t *testing.T) {
		files := multipartFiles(t, []string{"image/jpeg", "application/pdf", "image/png", "text/html"})
		assets, skipped, err := CollectGallery(files)
		require.NoError(t, err)
		require.Len(t, assets, 2)
		assert.Equal(t, "f0.jpg", assets[0].Filename)
		assert.Equal(t, "f2.jpg", assets[1].Filename)
		assert.Equal(t, []string{"f1.jpg", "f3.jpg"}, skipped)
	})

	t.Run("truncates at the gallery cap", func(t *testing.T) {
		types := make([]string, validation.MaxGalleryImages+10)
		for i := range types {
			types[i] = "image/jpeg"
		}
		assets, _, err := CollectGallery(multipartFiles(t, types))
		require.NoError(t, err)
		assert.Len(t, assets, validation.MaxGalleryImages)
	})

	t.Run("empty input", func(t *testing.T) {
		assets, skipped, err := CollectGallery(nil)
		require.NoError(t, err)
		assert.Empty(t, assets)
		assert.Empty(t, skipped)
	})
}

func TestResultEffectiveCover(t *testing.T) {
	t.Run("explicit cover wins", func(t *testing.T) {
		r := Result{CoverURL: "c", GalleryURLs: []string{"g0", "g1"}}
		assert.Equal(t, "c", r.EffectiveCover())
	})

	t.Run("first gallery image as fallback", func(t *testing.T) {
		r := Result{GalleryURLs: []string{"g0", "g1"}}
		assert.Equal(t, "g0", r.EffectiveCover())
	})

	t.Run("no images at all", func(t *testing.T) {
		r := Result{}
		assert.Equal(t, "", r.EffectiveCover())
	})
}
