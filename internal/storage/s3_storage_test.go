package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func TestS3Storage_PutObject(t *testing.T) {
	client := new(mockS3)
	store := NewS3StorageWithClient(client, "bucket", "https://cdn.example.com/")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "bucket" && aws.ToString(in.Key) == "items/a.jpg" &&
			aws.ToString(in.ContentType) == "image/jpeg" && string(body) == "data"
	})).Return(&s3.PutObjectOutput{}, nil)

	url, err := store.PutObject(context.Background(), "items/a.jpg", "image/jpeg", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/items/a.jpg", url)

	key, ok := store.KeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, "items/a.jpg", key)
	_, ok = store.KeyFromURL("https://elsewhere.example.com/x.jpg")
	assert.False(t, ok)
	client.AssertExpectations(t)
}

func TestS3Storage_DefaultBaseURLAndErrors(t *testing.T) {
	client := new(mockS3)
	store := NewS3StorageWithClient(client, "bucket", "")

	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))
	_, err := store.PutObject(context.Background(), "k", "image/png", nil)
	assert.ErrorContains(t, err, "denied")

	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "items/b.png"
	})).Return(&s3.DeleteObjectOutput{}, nil)
	require.NoError(t, store.DeleteObject(context.Background(), "items/b.png"))

	key, ok := store.KeyFromURL("https://bucket.s3.amazonaws.com/items/b.png")
	assert.True(t, ok)
	assert.Equal(t, "items/b.png", key)
}
