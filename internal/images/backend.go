package images

import (
	"context"
	"fmt"

	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/storage"
)

const s3Prefix = "items"

// NewBackend builds the image host selected by IMAGE_HOST.
func NewBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.ImageHost {
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryUploadURL, cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, nil)
	case "s3":
		store, err := storage.NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3(store, s3Prefix), nil
	}
	return nil, fmt.Errorf("unknown image host %q", cfg.ImageHost)
}
