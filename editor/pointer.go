package editor

import (
	"math"

	"RoomEditor/internal/logger"
	"RoomEditor/internal/renderer"
	"RoomEditor/internal/scene"
	"RoomEditor/internal/transform"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// dragEpsilon is the smallest drag offset treated as movement.
const dragEpsilon = 1e-6

type Tool int

const (
	ToolSelect Tool = iota
	ToolPlace
)

func (t Tool) String() string {
	if t == ToolPlace {
		return "place"
	}
	return "select"
}

// gesture is an in-progress drag of one furniture instance across the
// horizontal plane through the grab point.
type gesture struct {
	ref    scene.SelectionRef
	before scene.Scene
	start  transform.Transform
	grab   mgl64.Vec3
	moved  bool
}

func (c *Controller) SetTool(t Tool) {
	c.finishGesture()
	c.tool = t
}

func (c *Controller) Tool() Tool { return c.tool }

// SetPlacementModel selects the model the place tool drops.
func (c *Controller) SetPlacementModel(modelRef string) { c.placement = modelRef }

// SetScope sets the active floor and room. Picking is limited to it and
// placement targets its room.
func (c *Controller) SetScope(floorID, roomID string) {
	c.scope = renderer.Scope{FloorID: floorID, RoomID: roomID}
}

func (c *Controller) Scope() renderer.Scope { return c.scope }

// Dragging reports whether a move gesture is in progress.
func (c *Controller) Dragging() bool { return c.gesture != nil }

// Pick resolves a pointer position without changing anything.
func (c *Controller) Pick(p mgl64.Vec2) renderer.Result {
	res := c.resolver.Resolve(renderer.Query{
		Pointer:     p,
		Rect:        c.surface,
		Camera:      c.camera,
		Scene:       &c.current,
		Scope:       c.scope,
		FloorHeight: c.floorHeight,
	})
	c.metrics.Pick(res.Hit)
	return res
}

// PointerDown starts a gesture. A furniture hit selects it and begins a
// drag. A miss places the current model with the place tool, or clears the
// selection with the select tool.
func (c *Controller) PointerDown(p mgl64.Vec2) (renderer.Result, error) {
	if err := c.check(); err != nil {
		return renderer.Result{}, err
	}
	c.finishGesture()

	res := c.Pick(p)
	if res.Hit {
		if err := c.Select(res.Ref); err != nil {
			return res, err
		}
		item, _ := c.current.FindFurniture(res.Ref)
		c.gesture = &gesture{
			ref:    res.Ref,
			before: c.current,
			start:  item.Transform,
			grab:   res.Point,
		}
		return res, nil
	}

	if c.tool == ToolPlace {
		return res, c.place(res)
	}
	return res, c.ClearSelection()
}

func (c *Controller) place(res renderer.Result) error {
	if !res.OnPlane || c.placement == "" || c.scope.RoomID == "" {
		return ErrNoPlacement
	}
	floorID, roomID := c.scope.FloorID, c.scope.RoomID
	at := transform.At(res.PlanePoint)
	return c.mutate("place", func(s scene.Scene) (scene.Scene, error) {
		next, id, err := c.store.AddFurniture(s, floorID, roomID, c.placement, at, 1)
		if err != nil {
			return s, err
		}
		return c.store.Select(next, scene.FurnitureRef(floorID, roomID, id))
	})
}

// PointerMove drags the grabbed furniture. Intermediate positions are not
// recorded in history.
func (c *Controller) PointerMove(p mgl64.Vec2) error {
	if err := c.check(); err != nil {
		return err
	}
	g := c.gesture
	if g == nil {
		return nil
	}
	ndc, ok := renderer.NormalizePointer(p.X(), p.Y(), c.surface)
	if !ok {
		return nil
	}
	ray, ok := renderer.ScreenToRay(c.camera, ndc)
	if !ok {
		return nil
	}
	hit, _, point := renderer.RayIntersectPlane(ray, g.grab, mgl64.Vec3{0, 1, 0})
	if !hit {
		return nil
	}

	offset := point.Sub(g.grab)
	t := g.start
	if math.Hypot(offset.X(), offset.Z()) > dragEpsilon {
		t = transform.Translate(g.start, offset, transform.AxisXZ)
	}
	next, err := c.store.MoveFurniture(c.current, g.ref, t)
	if err != nil {
		c.gesture = nil
		c.rejected("drag", err)
		return err
	}
	c.current = next
	g.moved = true
	return nil
}

// PointerUp ends the gesture, recording the whole move as one edit.
func (c *Controller) PointerUp(p mgl64.Vec2) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.gesture != nil {
		if err := c.PointerMove(p); err != nil {
			return err
		}
	}
	c.finishGesture()
	return nil
}

func (c *Controller) finishGesture() {
	g := c.gesture
	if g == nil {
		return
	}
	c.gesture = nil
	if !g.moved {
		return
	}
	item, ok := c.current.FindFurniture(g.ref)
	if ok && item.Transform == g.start {
		return
	}
	c.commit("move", g.before, c.current)
	logger.Log.Debug("Move committed",
		zap.String("ref", g.ref.String()),
		zap.Float64("x", item.Transform.Position.X()),
		zap.Float64("z", item.Transform.Position.Z()))
}
