package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/chimgan/sales/internal/config"
)

// IS3Storage stores public objects in the configured bucket.
type IS3Storage interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) (string, error)
	DeleteObject(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// S3API is the part of *s3.Client the storage uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Storage struct {
	bucket  string
	baseURL string
	client  S3API
}

// NewS3Storage builds a client from the static credentials in cfg.
func NewS3Storage(ctx context.Context, cfg *config.Config) (IS3Storage, error) {
	if cfg.AwsS3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is not configured")
	}
	awsCfg, err := aws_config.LoadDefaultConfig(ctx,
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3StorageWithClient(s3.NewFromConfig(awsCfg), cfg.AwsS3Bucket, cfg.ImageBaseS3URL), nil
}

// NewS3StorageWithClient uses an existing client. Public URLs are baseURL + "/" + key;
// an empty baseURL means the bucket's virtual-hosted address.
func NewS3StorageWithClient(client S3API, bucket, baseURL string) IS3Storage {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &s3Storage{bucket: bucket, baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// PutObject uploads data under key and returns its public URL.
func (s *s3Storage) PutObject(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Printf("uploaded s3 object %s (%d bytes)", key, len(data))
	return s.baseURL + "/" + key, nil
}

func (s *s3Storage) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// KeyFromURL recovers the object key of a URL produced by PutObject.
func (s *s3Storage) KeyFromURL(url string) (string, bool) {
	key := strings.TrimPrefix(url, s.baseURL+"/")
	if key == url || key == "" {
		return "", false
	}
	return key, true
}
