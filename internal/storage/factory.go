package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"gearroom-backend/internal/config"
)

// NewStorage builds the configured storage backend.
func NewStorage(ctx context.Context, cfg config.StorageConfig, opts ...option.ClientOption) (StorageInterface, error) {
	switch cfg.Type {
	case "mock", "":
		return NewMockStorage(cfg.UploadDir, cfg.BaseURL)
	case "gcs":
		client, err := gcs.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create gcs client: %w", err)
		}
		return NewGCSStorage(client, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
