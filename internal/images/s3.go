package images

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/chimgan/sales/internal/storage"
)

// S3 stores images as public objects under a prefix.
type S3 struct {
	store  storage.IS3Storage
	prefix string
}

func NewS3(store storage.IS3Storage, prefix string) *S3 {
	return &S3{store: store, prefix: strings.Trim(prefix, "/")}
}

func (s *S3) Upload(ctx context.Context, f File) (string, error) {
	ext := strings.ToLower(path.Ext(f.Name))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s%s", s.prefix, uuid.NewString(), ext)
	return s.store.PutObject(ctx, key, f.ContentType, f.Data)
}

func (s *S3) Remove(ctx context.Context, url string) error {
	key, ok := s.store.KeyFromURL(url)
	if !ok {
		return fmt.Errorf("not an object of this bucket: %s", url)
	}
	return s.store.DeleteObject(ctx, key)
}
