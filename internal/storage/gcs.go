package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"

	"gearroom-backend/internal/logger"
)

// GCSStorage issues V4 signed URLs against a Google Cloud Storage
// bucket. Credentials come from the same service account the Firebase
// app is initialized with.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

func NewGCSStorage(client *gcs.Client, bucket string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs storage requires a bucket name")
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (g *GCSStorage) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Scheme:      gcs.SigningSchemeV4,
		Method:      "PUT",
		Expires:     time.Now().Add(expiresIn),
		ContentType: contentType,
	}
	url, err := g.client.Bucket(g.bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("sign upload url for %s: %w", key, err)
	}
	logger.Debug("gcs issued upload URL", "key", key, "bucket", g.bucket)
	return url, nil
}

func (g *GCSStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiresIn),
	}
	url, err := g.client.Bucket(g.bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("sign download url for %s: %w", key, err)
	}
	return url, nil
}

func (g *GCSStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	attrs, err := g.client.Bucket(g.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, attrs.Size, nil
}

func (g *GCSStorage) DeleteFile(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

// SaveFile is only meaningful for the mock backend; GCS clients upload
// directly through the signed URL.
func (g *GCSStorage) SaveFile(key string, reader io.Reader) error {
	return fmt.Errorf("direct file save not supported for gcs backend")
}

func (g *GCSStorage) ReadFile(key string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("direct file read not supported for gcs backend")
}
