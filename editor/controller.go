// Package editor drives the room editor: pointer gestures and commands are
// turned into scene mutations, recorded in history and saved locally.
package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"RoomEditor/internal/cache"
	"RoomEditor/internal/history"
	"RoomEditor/internal/logger"
	"RoomEditor/internal/metrics"
	"RoomEditor/internal/remote"
	"RoomEditor/internal/renderer"
	"RoomEditor/internal/scene"
	"RoomEditor/internal/scheduler"
	"RoomEditor/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrNotReady    = errors.New("editor: scene not loaded")
	ErrClosed      = errors.New("editor: closed")
	ErrNoSelection = errors.New("editor: nothing selected")
	ErrNoPlacement = errors.New("editor: no active room or model to place")
	ErrNoRemote    = errors.New("editor: no scene endpoint configured")

	ErrActionUnavailable = errors.New("editor: action not available for the selection")
)

// Endpoint loads and saves whole scenes remotely. *remote.Client implements it.
type Endpoint interface {
	Load(ctx context.Context, id string) (scene.Scene, error)
	Save(ctx context.Context, id string, s scene.Scene) error
}

type Options struct {
	// Cache keeps in-progress work. Nil uses a process-local memory cache.
	Cache  *cache.Cache
	Remote Endpoint

	SaveDelay time.Duration
	Clock     scheduler.Clock

	IDs          scene.IDSource
	HistoryLimit int

	Geometry    renderer.GeometrySource
	Camera      *renderer.Camera
	Surface     renderer.Rect
	FloorHeight float64

	Metrics *metrics.Metrics
}

// Controller is the single mutator of the editor scene. Its methods must be
// called from one goroutine; saves run in the background on the snapshot
// taken at scheduling time.
type Controller struct {
	store    *scene.Store
	cache    *cache.Cache
	remote   Endpoint
	saver    *scheduler.Debouncer
	history  *history.History[scene.Scene]
	resolver *renderer.Resolver
	metrics  *metrics.Metrics

	camera      *renderer.Camera
	surface     renderer.Rect
	floorHeight float64

	ready   bool
	closed  bool
	sceneID string
	current scene.Scene

	tool      Tool
	placement string
	scope     renderer.Scope
	gesture   *gesture
	dialog    QuantityDialog

	saveMu  sync.Mutex
	saveErr error
}

func New(opts Options) *Controller {
	c := opts.Cache
	if c == nil {
		c = cache.New(storage.NewMemory(), cache.WithMetrics(opts.Metrics))
	}
	camera := opts.Camera
	if camera == nil {
		camera = renderer.NewDefaultCamera(int(opts.Surface.Width), int(opts.Surface.Height))
	}
	return &Controller{
		store:       scene.NewStore(opts.IDs),
		cache:       c,
		remote:      opts.Remote,
		saver:       scheduler.NewDebouncer(opts.SaveDelay, opts.Clock),
		history:     history.New(history.WithLimit[scene.Scene](opts.HistoryLimit), history.WithClone(scene.Scene.Clone)),
		resolver:    renderer.NewResolver(opts.Geometry),
		metrics:     opts.Metrics,
		camera:      camera,
		surface:     opts.Surface,
		floorHeight: opts.FloorHeight,
		tool:        ToolSelect,
	}
}

// Mount loads the initial scene: an unexpired cached scene wins, then the
// endpoint when sceneID is set, else an empty scene. A failed remote load
// leaves the editor unmounted so Mount can be retried.
func (c *Controller) Mount(ctx context.Context, sceneID string) error {
	if c.closed {
		return ErrClosed
	}
	if c.ready {
		return nil
	}

	s, source := scene.Scene{}, "empty"
	if cached, ok := c.cache.Load(ctx); ok {
		s, source = cached, "cache"
	} else if sceneID != "" && c.remote != nil {
		loaded, err := c.remote.Load(ctx, sceneID)
		var ne *remote.NetworkError
		switch {
		case err == nil:
			s, source = loaded, "remote"
		case errors.As(err, &ne) && ne.NotFound():
			source = "new"
		default:
			logger.Log.Warn("Scene load failed", zap.String("scene", sceneID), zap.Error(err))
			return err
		}
	}

	c.current = s
	c.sceneID = sceneID
	c.history.Clear()
	c.ready = true
	logger.Log.Info("Editor mounted",
		zap.String("scene", sceneID),
		zap.String("source", source),
		zap.Int("floors", len(s.Floors)),
		zap.Int("furniture", s.FurnitureCount()))
	return nil
}

// Ready reports whether Mount has completed.
func (c *Controller) Ready() bool { return c.ready && !c.closed }

// Scene returns the current snapshot.
func (c *Controller) Scene() scene.Scene { return c.current }

func (c *Controller) SceneID() string { return c.sceneID }

// SetViewport updates the render surface rectangle and camera aspect.
func (c *Controller) SetViewport(rect renderer.Rect) {
	c.surface = rect
	c.camera.SetViewport(rect.Width, rect.Height)
}

func (c *Controller) Camera() *renderer.Camera { return c.camera }

// LastSaved reports when the scene was last written to the local cache.
func (c *Controller) LastSaved() (time.Time, bool) {
	return c.cache.LastSaved(context.Background())
}

// SaveError returns the error of the most recent background save, if it failed.
func (c *Controller) SaveError() error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	return c.saveErr
}

// SaveToServer writes the scene to the endpoint under id, or the mounted
// id when empty. The local cache is cleared only after the endpoint accepts
// the scene.
func (c *Controller) SaveToServer(ctx context.Context, id string) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.remote == nil {
		return ErrNoRemote
	}
	if id == "" {
		id = c.sceneID
	}
	c.finishGesture()
	c.saver.Flush()

	if err := c.remote.Save(ctx, id, c.current); err != nil {
		logger.Log.Warn("Save to server failed, keeping local copy", zap.String("scene", id), zap.Error(err))
		return err
	}
	c.sceneID = id
	if err := c.cache.Clear(ctx); err != nil {
		logger.Log.Warn("Cache clear after save failed", zap.Error(err))
	}
	return nil
}

// Close ends the session. A pending save is flushed unless discard is set,
// in which case it is dropped and the local cache cleared.
func (c *Controller) Close(discard bool) {
	if c.closed {
		return
	}
	c.finishGesture()
	if discard {
		c.saver.Cancel()
	}
	c.saver.Stop()
	if discard {
		if err := c.cache.Clear(context.Background()); err != nil {
			logger.Log.Warn("Cache clear on discard failed", zap.Error(err))
		}
	}
	c.closed = true
	c.ready = false
	logger.Log.Info("Editor closed", zap.Bool("discard", discard))
}

func (c *Controller) check() error {
	switch {
	case c.closed:
		return ErrClosed
	case !c.ready:
		return ErrNotReady
	}
	return nil
}

// commit records prev in history and replaces the scene.
func (c *Controller) commit(op string, prev, next scene.Scene) {
	c.history.Push(prev)
	c.replace(next)
	c.metrics.Mutation(op)
}

// replace swaps the scene without touching history and schedules a save.
func (c *Controller) replace(next scene.Scene) {
	c.current = next
	c.scheduleSave()
}

func (c *Controller) scheduleSave() {
	snapshot := c.current
	c.saver.Schedule(func() {
		err := c.cache.Save(context.Background(), snapshot)
		c.saveMu.Lock()
		c.saveErr = err
		c.saveMu.Unlock()
	})
}

// mutate runs one store operation as a discrete edit.
func (c *Controller) mutate(op string, fn func(scene.Scene) (scene.Scene, error)) error {
	if err := c.check(); err != nil {
		return err
	}
	c.finishGesture()
	prev := c.current
	next, err := fn(prev)
	if err != nil {
		c.rejected(op, err)
		return err
	}
	c.commit(op, prev, next)
	return nil
}

func (c *Controller) rejected(op string, err error) {
	kind := "other"
	switch {
	case errors.Is(err, scene.ErrNotFound):
		kind = "not_found"
	case errors.Is(err, scene.ErrValidation):
		kind = "validation"
	}
	c.metrics.MutationError(op, kind)
	logger.Log.Debug("Edit rejected", zap.String("op", op), zap.String("kind", kind), zap.Error(err))
}
