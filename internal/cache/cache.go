package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"RoomEditor/internal/logger"
	"RoomEditor/internal/metrics"
	"RoomEditor/internal/scene"
	"RoomEditor/internal/storage"

	"go.uber.org/zap"
)

const (
	StateKey     = "roomEditorState"
	LastSavedKey = "roomEditorState_lastSaved"
	DefaultTTL   = 5 * time.Minute
)

// ErrStorage matches any StorageError.
var ErrStorage = errors.New("storage failure")

var errMissingValue = errors.New("record has no value")

// StorageError wraps serialization and backend failures. It is never fatal:
// callers skip the save or treat the load as a miss.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("cache %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Record is the stored envelope.
type Record struct {
	Value                json.RawMessage `json:"value"`
	ExpiresAtEpochMillis int64           `json:"expiration"`
	SavedAtEpochMillis   int64           `json:"savedAt"`
}

// Cache persists the in-progress scene with a time-to-live.
type Cache struct {
	kv      storage.KV
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func New(kv storage.KV, opts ...Option) *Cache {
	c := &Cache{kv: kv, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save writes s with savedAt = now and expiration = now + TTL.
func (c *Cache) Save(ctx context.Context, s scene.Scene) error {
	value, err := scene.Encode(s)
	if err != nil {
		return c.saveFailed("encode", err)
	}
	now := c.now()
	rec := Record{
		Value:                value,
		SavedAtEpochMillis:   now.UnixMilli(),
		ExpiresAtEpochMillis: now.Add(c.ttl).UnixMilli(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return c.saveFailed("encode", err)
	}
	if err := c.kv.Set(ctx, StateKey, data); err != nil {
		return c.saveFailed("write", err)
	}
	if err := c.kv.Set(ctx, LastSavedKey, []byte(strconv.FormatInt(rec.SavedAtEpochMillis, 10))); err != nil {
		return c.saveFailed("write", err)
	}
	c.metrics.CacheEvent(metrics.CacheSaved)
	logger.Log.Debug("Scene cached",
		zap.Int("bytes", len(data)),
		zap.Int64("expiresAt", rec.ExpiresAtEpochMillis))
	return nil
}

// Load returns the cached scene. Missing, expired and corrupt records are
// all misses; expired and corrupt ones are evicted.
func (c *Cache) Load(ctx context.Context) (scene.Scene, bool) {
	data, ok, err := c.kv.Get(ctx, StateKey)
	if err != nil {
		logger.Log.Warn("Cache read failed, treating as miss", zap.Error(err))
		c.metrics.CacheEvent(metrics.CacheMiss)
		return scene.Scene{}, false
	}
	if !ok {
		c.metrics.CacheEvent(metrics.CacheMiss)
		return scene.Scene{}, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return c.evict(ctx, metrics.CacheCorrupt, err)
	}
	if len(rec.Value) == 0 || bytes.Equal(rec.Value, []byte("null")) {
		return c.evict(ctx, metrics.CacheCorrupt, errMissingValue)
	}
	if c.now().UnixMilli() > rec.ExpiresAtEpochMillis {
		return c.evict(ctx, metrics.CacheExpired, nil)
	}
	s, err := scene.Decode(rec.Value)
	if err != nil {
		return c.evict(ctx, metrics.CacheCorrupt, err)
	}
	c.metrics.CacheEvent(metrics.CacheHit)
	return s, true
}

// Clear evicts the cached scene, after a successful remote save or an explicit discard.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.kv.Delete(ctx, StateKey); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	c.metrics.CacheEvent(metrics.CacheCleared)
	return nil
}

// LastSaved returns the time of the last successful Save, for display.
func (c *Cache) LastSaved(ctx context.Context) (time.Time, bool) {
	data, ok, err := c.kv.Get(ctx, LastSavedKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) evict(ctx context.Context, event string, cause error) (scene.Scene, bool) {
	c.metrics.CacheEvent(event)
	fields := []zap.Field{zap.String("reason", event)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	logger.Log.Info("Evicting cached scene", fields...)
	if err := c.kv.Delete(ctx, StateKey); err != nil {
		logger.Log.Warn("Cache eviction failed", zap.Error(err))
	}
	return scene.Scene{}, false
}

func (c *Cache) saveFailed(op string, err error) error {
	c.metrics.CacheEvent(metrics.CacheSaveError)
	logger.Log.Warn("Scene cache save skipped", zap.String("op", op), zap.Error(err))
	return &StorageError{Op: op, Err: err}
}
