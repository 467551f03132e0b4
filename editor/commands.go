package editor

import (
	"RoomEditor/internal/scene"
	"RoomEditor/internal/transform"

	"github.com/go-gl/mathgl/mgl64"
)

// DuplicateOffset is where a duplicated instance lands relative to its source.
var DuplicateOffset = mgl64.Vec3{0.5, 0, 0.5}

// AddFloor appends a floor and makes it the active floor.
func (c *Controller) AddFloor(name string) (string, error) {
	var id string
	err := c.mutate("add_floor", func(s scene.Scene) (scene.Scene, error) {
		next, newID, err := c.store.AddFloor(s, name)
		id = newID
		return next, err
	})
	if err == nil {
		c.scope.FloorID, c.scope.RoomID = id, ""
	}
	return id, err
}

// AddRoom appends a room to floorID and makes it the active room.
func (c *Controller) AddRoom(floorID, name string) (string, error) {
	var id string
	err := c.mutate("add_room", func(s scene.Scene) (scene.Scene, error) {
		next, newID, err := c.store.AddRoom(s, floorID, name)
		id = newID
		return next, err
	})
	if err == nil {
		c.scope.FloorID, c.scope.RoomID = floorID, id
	}
	return id, err
}

func (c *Controller) AddFurniture(floorID, roomID, modelRef string, t transform.Transform, quantity int) (string, error) {
	var id string
	err := c.mutate("add_furniture", func(s scene.Scene) (scene.Scene, error) {
		next, newID, err := c.store.AddFurniture(s, floorID, roomID, modelRef, t, quantity)
		id = newID
		return next, err
	})
	return id, err
}

// RemoveSelected deletes the selected entity and everything it owns.
func (c *Controller) RemoveSelected() error {
	if err := c.check(); err != nil {
		return err
	}
	ref := c.current.Selection
	if ref.IsNone() {
		return ErrNoSelection
	}
	err := c.mutate("remove", func(s scene.Scene) (scene.Scene, error) {
		return c.store.RemoveEntity(s, ref)
	})
	if err == nil && !c.current.Resolves(scene.RoomRef(c.scope.FloorID, c.scope.RoomID)) {
		c.scope.RoomID = ""
		if _, ok := c.current.FindFloor(c.scope.FloorID); !ok {
			c.scope.FloorID = ""
		}
	}
	return err
}

// Select changes the selection. Selection is not an edit and is not undoable.
func (c *Controller) Select(ref scene.SelectionRef) error {
	if err := c.check(); err != nil {
		return err
	}
	next, err := c.store.Select(c.current, ref)
	if err != nil {
		c.rejected("select", err)
		return err
	}
	c.replace(next)
	return nil
}

func (c *Controller) ClearSelection() error {
	if err := c.check(); err != nil {
		return err
	}
	if c.current.Selection.IsNone() {
		return nil
	}
	c.replace(c.store.ClearSelection(c.current))
	return nil
}

// TransformSelected applies delta to the selected furniture on the masked axes.
func (c *Controller) TransformSelected(delta transform.Delta, mask transform.AxisMask) error {
	if err := c.check(); err != nil {
		return err
	}
	ref := c.current.Selection
	if ref.Kind != scene.SelectFurniture {
		return ErrNoSelection
	}
	return c.mutate("transform", func(s scene.Scene) (scene.Scene, error) {
		item, ok := s.FindFurniture(ref)
		if !ok {
			return s, &scene.NotFoundError{Ref: ref}
		}
		return c.store.MoveFurniture(s, ref, transform.Apply(item.Transform, delta, mask))
	})
}

// Rename renames a floor or room.
func (c *Controller) Rename(ref scene.SelectionRef, name string) error {
	return c.mutate("rename", func(s scene.Scene) (scene.Scene, error) {
		return c.store.Rename(s, ref, name)
	})
}

// SetQuantity changes the quantity of a furniture instance.
func (c *Controller) SetQuantity(ref scene.SelectionRef, quantity int) error {
	return c.mutate("set_quantity", func(s scene.Scene) (scene.Scene, error) {
		return c.store.SetQuantity(s, ref, quantity)
	})
}

// Duplicate copies the selected furniture next to itself and selects the copy.
func (c *Controller) Duplicate() (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}
	ref := c.current.Selection
	if ref.Kind != scene.SelectFurniture {
		return "", ErrNoSelection
	}
	var id string
	err := c.mutate("duplicate", func(s scene.Scene) (scene.Scene, error) {
		next, newID, err := c.store.DuplicateFurniture(s, ref, DuplicateOffset)
		if err != nil {
			return s, err
		}
		id = newID
		return c.store.Select(next, scene.FurnitureRef(ref.FloorID, ref.RoomID, newID))
	})
	return id, err
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (c *Controller) Undo() (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	c.finishGesture()
	prev, ok := c.history.Undo(c.current)
	c.metrics.HistoryStep("undo", ok)
	if ok {
		c.replace(prev)
		c.dialog = QuantityDialog{}
	}
	return ok, nil
}

func (c *Controller) Redo() (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	c.finishGesture()
	next, ok := c.history.Redo(c.current)
	c.metrics.HistoryStep("redo", ok)
	if ok {
		c.replace(next)
		c.dialog = QuantityDialog{}
	}
	return ok, nil
}

func (c *Controller) CanUndo() bool { return c.history.CanUndo() }

func (c *Controller) CanRedo() bool { return c.history.CanRedo() }
