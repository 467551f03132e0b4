package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"RoomEditor/internal/config"
)

// KV is durable key-value storage. Get reports a missing key with ok=false
// and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrEmptyKey is returned for blank keys by every backend.
var ErrEmptyKey = errors.New("storage: empty key")

// Open constructs the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Storage) (KV, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
