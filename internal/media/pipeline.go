// Package media ilan resimlerinin sıkıştırılıp object storage'a
// eşzamanlı yüklenmesini yürütür. Tek bir yükleme hatası tüm gönderimi
// düşürür; sıkıştırma hatası ise düşürmez, orijinal byte'lara dönülür.
package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"golang.org/x/sync/errgroup"

	"basera_backend/pkg/utils/validation"
)

// Asset bellekteki tek bir resim dosyası
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ObjectStore yüklemenin gittiği depo; prod'da R2, testlerde fake
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// CompressFunc resmi küçültüp yeniden kodlar. Hata dönerse pipeline
// orijinal byte'larla devam etmeye AÇIKÇA karar verir; karar burada
// görünürdür, yutulmuş bir catch bloğunda değil.
type CompressFunc func(data []byte) ([]byte, string, error)

// KeyFunc dosya adından depo anahtarı üretir
type KeyFunc func(filename string) string

type Pipeline struct {
	Store    ObjectStore
	Compress CompressFunc
	Key      KeyFunc
}

// Result yükleme sonuçları. GalleryURLs girdi sırasını birebir korur.
type Result struct {
	CoverURL    string
	GalleryURLs []string
	// Fallbacks sıkıştırması başarısız olup orijinal haliyle
	// yüklenen dosyaların adları
	Fallbacks []string
}

// EffectiveCover kapak yoksa ilk galeri URL'ini kapak olarak döner
func (r *Result) EffectiveCover() string {
	if r.CoverURL != "" {
		return r.CoverURL
	}
	if len(r.GalleryURLs) > 0 {
		return r.GalleryURLs[0]
	}
	return ""
}

// Process kapak ve galeri resimlerini eşzamanlı yükler. Kapak ile
// galeri grubu birlikte beklenir; toplam süre iki grubun toplamı değil
// en uzunu kadardır. Herhangi bir yükleme hatası tümünü iptal eder.
func (p *Pipeline) Process(ctx context.Context, cover *Asset, gallery []Asset) (*Result, error) {
	res := &Result{
		GalleryURLs: make([]string, len(gallery)),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	upload := func(a Asset) (string, error) {
		data, contentType := a.Data, a.ContentType
		if compressed, ct, err := p.Compress(a.Data); err == nil {
			data, contentType = compressed, ct
		} else {
			mu.Lock()
			res.Fallbacks = append(res.Fallbacks, a.Filename)
			mu.Unlock()
		}
		return p.Store.Put(ctx, p.Key(a.Filename), contentType, data)
	}

	if cover != nil {
		c := *cover
		g.Go(func() error {
			url, err := upload(c)
			if err != nil {
				return fmt.Errorf("cover upload failed: %v", err)
			}
			res.CoverURL = url
			return nil
		})
	}

	for i := range gallery {
		i, a := i, gallery[i]
		g.Go(func() error {
			url, err := upload(a)
			if err != nil {
				return fmt.Errorf("gallery upload failed: %v", err)
			}
			res.GalleryURLs[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return res, nil
}

// CollectGallery multipart galeri dosyalarını belleğe alır. Uygun
// olmayan MIME tipleri atlanır ve adları ikinci dönüşte bildirilir,
// sayı üst sınırı aşarsa fazlası kırpılır; alt sınır gönderim anında
// ayrıca denetlenir.
func CollectGallery(files []*multipart.FileHeader) ([]Asset, []string, error) {
	assets := make([]Asset, 0, len(files))
	var skipped []string

	for _, fh := range files {
		if len(assets) >= validation.MaxGalleryImages {
			break
		}
		if !validation.AcceptableImage(fh) {
			skipped = append(skipped, fh.Filename)
			continue
		}
		a, err := ReadAsset(fh)
		if err != nil {
			return nil, skipped, err
		}
		assets = append(assets, a)
	}

	return assets, skipped, nil
}

// ReadAsset tek bir multipart dosyayı belleğe okur
func ReadAsset(fh *multipart.FileHeader) (Asset, error) {
	src, err := fh.Open()
	if err != nil {
		return Asset{}, fmt.Errorf("could not open file: %v", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return Asset{}, fmt.Errorf("could not read file: %v", err)
	}

	return Asset{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
