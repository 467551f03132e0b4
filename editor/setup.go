package editor

import (
	"context"
	"fmt"

	"RoomEditor/internal/cache"
	"RoomEditor/internal/config"
	"RoomEditor/internal/loader"
	"RoomEditor/internal/logger"
	"RoomEditor/internal/metrics"
	"RoomEditor/internal/remote"
	"RoomEditor/internal/renderer"
	"RoomEditor/internal/storage"

	"go.uber.org/zap"
)

// FromConfig wires a controller to the configured storage backend, scene
// endpoint and model directory. The returned func closes the storage and
// must be called after Close.
func FromConfig(ctx context.Context, cfg config.Config, m *metrics.Metrics) (*Controller, func() error, error) {
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	opts := Options{
		Cache:        cache.New(kv, cache.WithTTL(cfg.Editor.CacheTTL), cache.WithMetrics(m)),
		SaveDelay:    cfg.Editor.SaveDebounce,
		HistoryLimit: cfg.Editor.HistoryLimit,
		Surface: renderer.Rect{
			Width:  float64(cfg.Editor.ViewportWidth),
			Height: float64(cfg.Editor.ViewportHeight),
		},
		Metrics: m,
	}
	if cfg.Remote.BaseURL != "" {
		opts.Remote = remote.New(cfg.Remote.BaseURL, remote.WithTimeout(cfg.Remote.Timeout))
	}
	if cfg.Editor.ModelDir != "" {
		catalog := loader.NewCatalog(cfg.Editor.ModelDir)
		if n, err := catalog.Preload(); err != nil {
			logger.Log.Warn("Model directory unreadable", zap.String("dir", cfg.Editor.ModelDir), zap.Error(err))
		} else {
			logger.Log.Info("Model geometry preloaded", zap.Int("models", n))
		}
		if err := catalog.Watch(ctx); err != nil {
			logger.Log.Warn("Model directory not watched", zap.Error(err))
		}
		opts.Geometry = catalog
	} else {
		opts.Geometry = renderer.StaticGeometry{}
	}

	logger.Log.Info("Editor configured",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("remote", opts.Remote != nil),
		zap.Duration("saveDebounce", cfg.Editor.SaveDebounce),
		zap.Duration("cacheTTL", cfg.Editor.CacheTTL))
	return New(opts), kv.Close, nil
}
