package storage

import (
	"context"
	"fmt"

	"github.com/clitter/clitter/internal/config"
)

// Storage persists media bytes under a key. Writing an existing key
// overwrites it.
type Storage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

func New(ctx context.Context, cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(ctx, &cfg.S3)
	case "local", "":
		return NewLocalStorage(cfg.Local.Root)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
