package editor

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"RoomEditor/internal/scene"
)

func TestQuantityDialog(t *testing.T) {
	h := mounted(t)
	c := h.c
	floorID, roomID, chairID := house(t, c)
	ref := scene.FurnitureRef(floorID, roomID, chairID)

	if err := c.OpenQuantityDialog(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Expected ErrNoSelection, got %v", err)
	}
	c.Select(ref)
	if err := c.OpenQuantityDialog(); err != nil {
		t.Fatal(err)
	}
	if d := c.QuantityDialog(); !d.Open || d.Input != "1" || d.Target != ref {
		t.Fatalf("Unexpected dialog state %+v", d)
	}

	before := c.Scene()
	c.SetQuantityInput("0")
	if err := c.ConfirmQuantity(); !errors.Is(err, scene.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
	d := c.QuantityDialog()
	if !d.Open || d.Error != "must be at least 1, got 0" {
		t.Errorf("Expected the dialog to stay open with an inline error, got %+v", d)
	}
	if !reflect.DeepEqual(c.Scene(), before) {
		t.Error("Rejected quantity changed the scene")
	}

	c.SetQuantityInput("two")
	if err := c.ConfirmQuantity(); !errors.Is(err, scene.ErrValidation) {
		t.Errorf("Expected ErrValidation for non-numeric input, got %v", err)
	}

	c.SetQuantityInput(" 3 ")
	if c.QuantityDialog().Error != "" {
		t.Error("Typing should clear the inline error")
	}
	if err := c.ConfirmQuantity(); err != nil {
		t.Fatal(err)
	}
	if c.QuantityDialog().Open {
		t.Error("Dialog should close after a valid quantity")
	}
	item, _ := c.Scene().FindFurniture(ref)
	if item.Quantity != 3 {
		t.Errorf("Expected quantity 3, got %d", item.Quantity)
	}
}

func TestCancelQuantityDialog(t *testing.T) {
	h := mounted(t)
	c := h.c
	floorID, roomID, chairID := house(t, c)
	c.Select(scene.FurnitureRef(floorID, roomID, chairID))
	c.OpenQuantityDialog()
	c.SetQuantityInput("9")
	c.CancelQuantityDialog()

	if c.QuantityDialog().Open {
		t.Error("Dialog should be closed")
	}
	item, _ := c.Scene().FindFurniture(scene.FurnitureRef(floorID, roomID, chairID))
	if item.Quantity != 1 {
		t.Errorf("Cancel must not apply the input, got %d", item.Quantity)
	}
}

func TestMenuBoard(t *testing.T) {
	h := mounted(t)
	c := h.c
	floorID, roomID, chairID := house(t, c)

	if items := c.MenuBoard(); items != nil {
		t.Errorf("Expected no actions without a selection, got %v", items)
	}

	c.Select(scene.RoomRef(floorID, roomID))
	if err := c.Invoke(ActionDuplicate, ""); !errors.Is(err, ErrActionUnavailable) {
		t.Errorf("Rooms cannot be duplicated, got %v", err)
	}
	if err := c.Invoke(ActionRename, "Living Room"); err != nil {
		t.Fatal(err)
	}
	if room, _ := c.Scene().FindRoom(floorID, roomID); room.Name != "Living Room" {
		t.Errorf("Expected rename, got %q", room.Name)
	}

	ref := scene.FurnitureRef(floorID, roomID, chairID)
	c.Select(ref)
	var actions []Action
	for _, item := range c.MenuBoard() {
		actions = append(actions, item.Action)
	}
	want := []Action{ActionQuantity, ActionDuplicate, ActionRotate, ActionDelete}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("Expected %v, got %v", want, actions)
	}

	if err := c.Invoke(ActionRotate, ""); err != nil {
		t.Fatal(err)
	}
	item, _ := c.Scene().FindFurniture(ref)
	if math.Abs(item.Transform.Rotation.Y()-math.Pi/2) > 1e-9 {
		t.Errorf("Expected a quarter turn, got %v", item.Transform.Rotation)
	}

	if err := c.Invoke(ActionDuplicate, ""); err != nil {
		t.Fatal(err)
	}
	if c.Scene().FurnitureCount() != 2 || c.Scene().Selection.FurnitureID == chairID {
		t.Errorf("Expected a selected copy, got %+v", c.Scene())
	}
	copyRef := c.Scene().Selection
	dup, _ := c.Scene().FindFurniture(copyRef)
	if dup.Transform.Position != item.Transform.Position.Add(DuplicateOffset) || dup.Transform.Rotation != item.Transform.Rotation {
		t.Errorf("Copy should keep the rotation and shift by the offset, got %+v", dup.Transform)
	}

	if err := c.Invoke(ActionQuantity, ""); err != nil || !c.QuantityDialog().Open {
		t.Errorf("Quantity action should open the dialog, err=%v", err)
	}
	c.CancelQuantityDialog()

	if err := c.Invoke(ActionDelete, ""); err != nil {
		t.Fatal(err)
	}
	if c.Scene().Resolves(copyRef) || !c.Scene().Selection.IsNone() {
		t.Error("Delete should remove the copy and clear the selection")
	}
}
