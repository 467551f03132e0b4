package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"RoomEditor/internal/logger"
	"RoomEditor/internal/renderer"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Catalog serves pick geometry for model references from a directory of
// OBJ files named <modelRef>.obj. Meshes are loaded on first use. Models
// that fail to load are remembered as missing until invalidated, so the pick
// path does not retry the disk.
type Catalog struct {
	dir string

	mu     sync.RWMutex
	meshes map[string]renderer.Mesh
	failed map[string]struct{}
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{
		dir:    dir,
		meshes: make(map[string]renderer.Mesh),
		failed: make(map[string]struct{}),
	}
}

// Mesh implements renderer.GeometrySource.
func (c *Catalog) Mesh(modelRef string) (renderer.Mesh, bool) {
	c.mu.RLock()
	m, ok := c.meshes[modelRef]
	_, bad := c.failed[modelRef]
	c.mu.RUnlock()
	if ok || bad {
		return m, ok
	}

	path, ok := c.path(modelRef)
	if !ok {
		c.remember(modelRef, renderer.Mesh{}, false)
		return renderer.Mesh{}, false
	}
	m, err := LoadMesh(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Log.Warn("Model geometry unavailable, using default bounds",
				zap.String("model", modelRef), zap.Error(err))
		}
		c.remember(modelRef, renderer.Mesh{}, false)
		return renderer.Mesh{}, false
	}
	logger.Log.Debug("Model geometry loaded",
		zap.String("model", modelRef), zap.Int("triangles", len(m.Triangles)))
	c.remember(modelRef, m, true)
	return m, true
}

// Preload loads every OBJ in the directory and returns how many succeeded.
func (c *Catalog) Preload() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".obj") {
			continue
		}
		if _, ok := c.Mesh(strings.TrimSuffix(name, filepath.Ext(name))); ok {
			n++
		}
	}
	return n, nil
}

// Invalidate forgets modelRef so the next lookup reads the file again.
func (c *Catalog) Invalidate(modelRef string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.meshes, modelRef)
	delete(c.failed, modelRef)
}

// Watch invalidates models whose OBJ file is created, written, renamed or
// removed, until ctx is done.
func (c *Catalog) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(c.dir); err != nil {
		w.Close()
		return err
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				name := filepath.Base(ev.Name)
				if !strings.EqualFold(filepath.Ext(name), ".obj") || ev.Op == fsnotify.Chmod {
					continue
				}
				modelRef := strings.TrimSuffix(name, filepath.Ext(name))
				c.Invalidate(modelRef)
				logger.Log.Debug("Model geometry changed", zap.String("model", modelRef), zap.String("op", ev.Op.String()))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("Model directory watch error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (c *Catalog) path(modelRef string) (string, bool) {
	if modelRef == "" || modelRef != filepath.Base(modelRef) || strings.HasPrefix(modelRef, ".") {
		return "", false
	}
	return filepath.Join(c.dir, modelRef+".obj"), true
}

func (c *Catalog) remember(modelRef string, m renderer.Mesh, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.meshes[modelRef] = m
	} else {
		c.failed[modelRef] = struct{}{}
	}
}
