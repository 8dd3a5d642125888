package image

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	MaxImageSize = 10 * 1024 * 1024 // 10MB

	// MaxWidth yüklemeden önce resmin küçültüleceği azami genişlik
	MaxWidth = 1600

	// Quality jpeg/webp yeniden kodlama kalitesi
	Quality = 85
)

var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Process resmi decode eder, MaxWidth'e sığacak şekilde küçültür ve
// aynı formatta yeniden kodlar. Hata dönerse çağıran orijinal byte'lara
// geri dönmeye kendisi karar verir; burada sessiz fallback yoktur.
func Process(data []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %v", err)
	}

	img = downscale(img)

	buf := new(bytes.Buffer)

	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: Quality})
	case "png":
		err = png.Encode(buf, img)
	case "webp":
		err = webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: Quality})
	default:
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}

	if err != nil {
		return nil, "", fmt.Errorf("could not encode image: %v", err)
	}

	contentType := fmt.Sprintf("image/%s", format)

	return buf.Bytes(), contentType, nil
}

// downscale genişliği MaxWidth üzerindeyse oranı koruyarak küçültür
func downscale(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= MaxWidth {
		return img
	}

	h := b.Dy() * MaxWidth / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, MaxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
