package editor

import (
	"math"

	"RoomEditor/internal/scene"
	"RoomEditor/internal/transform"

	"github.com/go-gl/mathgl/mgl64"
)

// Action is an entry of the context menu board.
type Action string

const (
	ActionRename    Action = "rename"
	ActionQuantity  Action = "quantity"
	ActionDuplicate Action = "duplicate"
	ActionRotate    Action = "rotate"
	ActionDelete    Action = "delete"
)

// RotateStep is the yaw applied by ActionRotate.
const RotateStep = math.Pi / 2

type MenuItem struct {
	Action Action
	Label  string
}

// MenuBoard lists the actions available for the current selection.
func (c *Controller) MenuBoard() []MenuItem {
	if !c.Ready() {
		return nil
	}
	switch c.current.Selection.Kind {
	case scene.SelectFloor, scene.SelectRoom:
		return []MenuItem{
			{Action: ActionRename, Label: "Rename"},
			{Action: ActionDelete, Label: "Delete"},
		}
	case scene.SelectFurniture:
		return []MenuItem{
			{Action: ActionQuantity, Label: "Quantity"},
			{Action: ActionDuplicate, Label: "Duplicate"},
			{Action: ActionRotate, Label: "Rotate 90°"},
			{Action: ActionDelete, Label: "Delete"},
		}
	}
	return nil
}

// Invoke runs a menu action on the current selection. input is the new
// name for ActionRename and ignored otherwise. ActionQuantity opens the
// quantity dialog.
func (c *Controller) Invoke(action Action, input string) error {
	if err := c.check(); err != nil {
		return err
	}
	if !c.offers(action) {
		return ErrActionUnavailable
	}
	switch action {
	case ActionRename:
		return c.Rename(c.current.Selection, input)
	case ActionQuantity:
		return c.OpenQuantityDialog()
	case ActionDuplicate:
		_, err := c.Duplicate()
		return err
	case ActionRotate:
		return c.TransformSelected(transform.Delta{Rotation: mgl64.Vec3{0, RotateStep, 0}}, transform.AxisY)
	case ActionDelete:
		return c.RemoveSelected()
	}
	return ErrActionUnavailable
}

func (c *Controller) offers(action Action) bool {
	for _, item := range c.MenuBoard() {
		if item.Action == action {
			return true
		}
	}
	return false
}
