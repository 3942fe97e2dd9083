// Package images prepares item photos and uploads them to the configured host.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/config"
)

const (
	uploadConcurrency = 4
	jpegQuality       = 85
)

// File is one image to upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Backend stores a prepared image and returns its public URL.
type Backend interface {
	Upload(ctx context.Context, f File) (string, error)
}

// Remover is implemented by backends that can delete what they uploaded.
type Remover interface {
	Remove(ctx context.Context, url string) error
}

// Uploader uploads batches of images. A batch either uploads completely or
// yields no URLs.
type Uploader struct {
	backend      Backend
	maxDimension int
	maxBytes     int64
	maxFiles     int
}

func NewUploader(backend Backend, cfg *config.Config) *Uploader {
	return &Uploader{
		backend:      backend,
		maxDimension: cfg.ImageMaxDimension,
		maxBytes:     int64(cfg.ImageMaxSizeMB) * 1024 * 1024,
		maxFiles:     cfg.MaxImagesPerUpload,
	}
}

// UploadAll uploads files concurrently. The first failure cancels the remaining
// uploads; images already stored are removed when the backend supports it.
// URLs are returned in input order.
func (u *Uploader) UploadAll(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, apperr.InvalidArg("no images provided")
	}
	if u.maxFiles > 0 && len(files) > u.maxFiles {
		return nil, apperr.InvalidArg(fmt.Sprintf("at most %d images per upload", u.maxFiles))
	}

	prepared := make([]File, len(files))
	for i, f := range files {
		p, err := u.Prepare(f)
		if err != nil {
			return nil, err
		}
		prepared[i] = p
	}

	urls := make([]string, len(prepared))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i := range prepared {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			url, err := u.backend.Upload(gctx, prepared[i])
			if err != nil {
				return fmt.Errorf("upload %s: %w", prepared[i].Name, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.cleanup(context.WithoutCancel(ctx), urls)
		return nil, apperr.Internal("failed to upload images", err)
	}
	return urls, nil
}

func (u *Uploader) cleanup(ctx context.Context, urls []string) {
	remover, ok := u.backend.(Remover)
	if !ok {
		return
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := remover.Remove(ctx, url); err != nil {
			log.Printf("WARN: failed to remove orphaned image %s: %v", url, err)
		}
	}
}

// Prepare checks a file and downscales it to the maximum dimension. Images
// within bounds are passed through untouched; larger ones are re-encoded as JPEG.
func (u *Uploader) Prepare(f File) (File, error) {
	if len(f.Data) == 0 {
		return File{}, apperr.InvalidArg("empty image")
	}
	if u.maxBytes > 0 && int64(len(f.Data)) > u.maxBytes {
		return File{}, apperr.InvalidArg("image is too large")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return File{}, apperr.InvalidArg("unsupported image format")
	}
	if f.ContentType == "" {
		f.ContentType = http.DetectContentType(f.Data)
	}
	if u.maxDimension <= 0 || (cfg.Width <= u.maxDimension && cfg.Height <= u.maxDimension) {
		return f, nil
	}

	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return File{}, apperr.InvalidArg("unsupported image format")
	}
	max := uint(u.maxDimension)
	resized := resize.Thumbnail(max, max, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return File{}, apperr.Internal("failed to process image", err)
	}
	log.Printf("resized %s image %s from %dx%d to %dx%d", format, f.Name, cfg.Width, cfg.Height,
		resized.Bounds().Dx(), resized.Bounds().Dy())
	return File{Name: jpegName(f.Name), ContentType: "image/jpeg", Data: buf.Bytes()}, nil
}

func jpegName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name + ".jpg"
}
