package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"RoomEditor/editor"
	"RoomEditor/internal/renderer"
	"RoomEditor/internal/scene"
	"RoomEditor/internal/transform"

	"github.com/go-gl/mathgl/mgl64"
)

// Commands returns the registry of editor commands.
func Commands() *Registry {
	r := NewRegistry()
	for _, cmd := range []Command{
		{Name: "tree", Usage: "tree", Help: "print the scene", Run: tree},
		{Name: "status", Usage: "status", Help: "show tool, scope, history and last save", Run: status},
		{Name: "add-floor", Usage: "add-floor NAME", Help: "add a floor", MinArgs: 1, Run: addFloor},
		{Name: "add-room", Usage: "add-room FLOOR NAME", Help: "add a room to a floor", MinArgs: 2, Run: addRoom},
		{Name: "add", Usage: "add MODEL [X Y Z] [QTY]", Help: "add furniture to the active room", MinArgs: 1, Run: addFurniture},
		{Name: "select", Usage: "select FLOOR[/ROOM[/ITEM]]", Help: "select an entity", MinArgs: 1, Run: selectRef},
		{Name: "clear", Usage: "clear", Help: "clear the selection", Run: clearSelection},
		{Name: "scope", Usage: "scope FLOOR [ROOM]", Help: "set the active floor and room", MinArgs: 1, Run: scope},
		{Name: "move", Usage: "move DX DY DZ", Help: "translate the selected furniture", MinArgs: 3, Run: move},
		{Name: "rotate", Usage: "rotate DEGREES", Help: "turn the selected furniture about Y", MinArgs: 1, Run: rotate},
		{Name: "scale", Usage: "scale DS", Help: "grow or shrink the selected furniture", MinArgs: 1, Run: scale},
		{Name: "rename", Usage: "rename NAME", Help: "rename the selected floor or room", MinArgs: 1, Run: menuAction(editor.ActionRename)},
		{Name: "quantity", Usage: "quantity N", Help: "set the quantity of the selected furniture", MinArgs: 1, Run: quantity},
		{Name: "duplicate", Usage: "duplicate", Help: "copy the selected furniture", Run: menuAction(editor.ActionDuplicate)},
		{Name: "delete", Usage: "delete", Help: "remove the selected entity", Run: menuAction(editor.ActionDelete)},
		{Name: "menu", Usage: "menu", Help: "list actions for the selection", Run: menu},
		{Name: "undo", Usage: "undo", Help: "undo the last edit", Run: undo},
		{Name: "redo", Usage: "redo", Help: "redo the last undone edit", Run: redo},
		{Name: "tool", Usage: "tool select|place", Help: "switch pointer tool", MinArgs: 1, Run: tool},
		{Name: "model", Usage: "model MODEL", Help: "model dropped by the place tool", MinArgs: 1, Run: model},
		{Name: "viewport", Usage: "viewport W H", Help: "resize the pointer surface", MinArgs: 2, Run: viewport},
		{Name: "click", Usage: "click X Y", Help: "pointer down and up at a surface position", MinArgs: 2, Run: click},
		{Name: "drag", Usage: "drag X1 Y1 X2 Y2", Help: "drag from one surface position to another", MinArgs: 4, Run: drag},
		{Name: "save", Usage: "save [ID]", Help: "save the scene to the server", Run: save},
	} {
		r.Register(cmd)
	}
	return r
}

func tree(_ context.Context, c *editor.Controller, _ []string) (string, error) {
	s := c.Scene()
	if s.IsEmpty() {
		return "(empty scene)", nil
	}
	var b strings.Builder
	mark := func(ref scene.SelectionRef) string {
		if s.Selection == ref {
			return " *"
		}
		return ""
	}
	for _, f := range s.Floors {
		fmt.Fprintf(&b, "%s [%s]%s\n", f.Name, f.ID, mark(scene.FloorRef(f.ID)))
		for _, r := range f.Rooms {
			fmt.Fprintf(&b, "  %s [%s]%s\n", r.Name, r.ID, mark(scene.RoomRef(f.ID, r.ID)))
			for _, item := range r.Furniture {
				p := item.Transform.Position
				fmt.Fprintf(&b, "    %s x%d @ (%.2f, %.2f, %.2f) [%s]%s\n",
					item.ModelRef, item.Quantity, p.X(), p.Y(), p.Z(), item.ID,
					mark(scene.FurnitureRef(f.ID, r.ID, item.ID)))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func status(_ context.Context, c *editor.Controller, _ []string) (string, error) {
	saved := "never"
	if t, ok := c.LastSaved(); ok {
		saved = t.Format("15:04:05")
	}
	sc := c.Scope()
	line := fmt.Sprintf("tool=%s scope=%s/%s selection=%s undo=%t redo=%t saved=%s",
		c.Tool(), sc.FloorID, sc.RoomID, c.Scene().Selection, c.CanUndo(), c.CanRedo(), saved)
	if err := c.SaveError(); err != nil {
		line += fmt.Sprintf(" save-error=%q", err.Error())
	}
	return line, nil
}

func addFloor(_ context.Context, c *editor.Controller, args []string) (string, error) {
	return c.AddFloor(strings.Join(args, " "))
}

func addRoom(_ context.Context, c *editor.Controller, args []string) (string, error) {
	return c.AddRoom(args[0], strings.Join(args[1:], " "))
}

func addFurniture(_ context.Context, c *editor.Controller, args []string) (string, error) {
	sc := c.Scope()
	if sc.RoomID == "" {
		return "", editor.ErrNoPlacement
	}
	t := transform.Identity()
	if len(args) >= 4 {
		p, err := parseVec(args[1:4])
		if err != nil {
			return "", err
		}
		t.Position = p
	}
	q := 1
	if len(args) >= 5 {
		n, err := strconv.Atoi(args[4])
		if err != nil {
			return "", fmt.Errorf("quantity: %w", err)
		}
		q = n
	}
	return c.AddFurniture(sc.FloorID, sc.RoomID, args[0], t, q)
}

// parseRef turns FLOOR, FLOOR/ROOM or FLOOR/ROOM/ITEM into a reference.
func parseRef(path string) (scene.SelectionRef, error) {
	parts := strings.Split(path, "/")
	switch len(parts) {
	case 1:
		return scene.FloorRef(parts[0]), nil
	case 2:
		return scene.RoomRef(parts[0], parts[1]), nil
	case 3:
		return scene.FurnitureRef(parts[0], parts[1], parts[2]), nil
	}
	return scene.None(), &UsageError{Usage: "select FLOOR[/ROOM[/ITEM]]"}
}

func selectRef(_ context.Context, c *editor.Controller, args []string) (string, error) {
	ref, err := parseRef(args[0])
	if err != nil {
		return "", err
	}
	return "", c.Select(ref)
}

func clearSelection(_ context.Context, c *editor.Controller, _ []string) (string, error) {
	return "", c.ClearSelection()
}

func scope(_ context.Context, c *editor.Controller, args []string) (string, error) {
	room := ""
	if len(args) > 1 {
		room = args[1]
	}
	c.SetScope(args[0], room)
	return "", nil
}

func move(_ context.Context, c *editor.Controller, args []string) (string, error) {
	d, err := parseVec(args[:3])
	if err != nil {
		return "", err
	}
	return "", c.TransformSelected(transform.Delta{Position: d}, transform.AxisAll)
}

func rotate(_ context.Context, c *editor.Controller, args []string) (string, error) {
	deg, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return "", fmt.Errorf("degrees: %w", err)
	}
	delta := transform.Delta{Rotation: mgl64.Vec3{0, mgl64.DegToRad(deg), 0}}
	return "", c.TransformSelected(delta, transform.AxisY)
}

func scale(_ context.Context, c *editor.Controller, args []string) (string, error) {
	ds, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return "", fmt.Errorf("scale: %w", err)
	}
	return "", c.TransformSelected(transform.Delta{Scale: mgl64.Vec3{ds, ds, ds}}, transform.AxisAll)
}

// quantity goes through the dialog so the inline message is what gets printed.
func quantity(_ context.Context, c *editor.Controller, args []string) (string, error) {
	if err := c.Invoke(editor.ActionQuantity, ""); err != nil {
		return "", err
	}
	c.SetQuantityInput(args[0])
	if err := c.ConfirmQuantity(); err != nil {
		msg := c.QuantityDialog().Error
		c.CancelQuantityDialog()
		return "", fmt.Errorf("quantity %s", msg)
	}
	return "", nil
}

func menuAction(action editor.Action) Handler {
	return func(_ context.Context, c *editor.Controller, args []string) (string, error) {
		return "", c.Invoke(action, strings.Join(args, " "))
	}
}

func menu(_ context.Context, c *editor.Controller, _ []string) (string, error) {
	items := c.MenuBoard()
	if len(items) == 0 {
		return "(nothing selected)", nil
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = fmt.Sprintf("%s (%s)", item.Label, item.Action)
	}
	return strings.Join(labels, "\n"), nil
}

func undo(_ context.Context, c *editor.Controller, _ []string) (string, error) {
	ok, err := c.Undo()
	if err == nil && !ok {
		return "nothing to undo", nil
	}
	return "", err
}

func redo(_ context.Context, c *editor.Controller, _ []string) (string, error) {
	ok, err := c.Redo()
	if err == nil && !ok {
		return "nothing to redo", nil
	}
	return "", err
}

func tool(_ context.Context, c *editor.Controller, args []string) (string, error) {
	switch args[0] {
	case "select":
		c.SetTool(editor.ToolSelect)
	case "place":
		c.SetTool(editor.ToolPlace)
	default:
		return "", &UsageError{Usage: "tool select|place"}
	}
	return "", nil
}

func model(_ context.Context, c *editor.Controller, args []string) (string, error) {
	c.SetPlacementModel(args[0])
	return "", nil
}

func viewport(_ context.Context, c *editor.Controller, args []string) (string, error) {
	size, err := parsePoint(args[0], args[1])
	if err != nil {
		return "", err
	}
	if size.X() <= 0 || size.Y() <= 0 {
		return "", &UsageError{Usage: "viewport W H"}
	}
	c.SetViewport(renderer.Rect{Width: size.X(), Height: size.Y()})
	return "", nil
}

func click(_ context.Context, c *editor.Controller, args []string) (string, error) {
	p, err := parsePoint(args[0], args[1])
	if err != nil {
		return "", err
	}
	res, err := c.PointerDown(p)
	if err != nil {
		return "", err
	}
	if err := c.PointerUp(p); err != nil {
		return "", err
	}
	if res.Hit {
		return fmt.Sprintf("hit %s at %.2f", res.Ref, res.Distance), nil
	}
	return "miss", nil
}

func drag(_ context.Context, c *editor.Controller, args []string) (string, error) {
	from, err := parsePoint(args[0], args[1])
	if err != nil {
		return "", err
	}
	to, err := parsePoint(args[2], args[3])
	if err != nil {
		return "", err
	}
	res, err := c.PointerDown(from)
	if err != nil {
		return "", err
	}
	if !res.Hit {
		return "miss", nil
	}
	if err := c.PointerMove(to); err != nil {
		return "", err
	}
	return "", c.PointerUp(to)
}

func save(ctx context.Context, c *editor.Controller, args []string) (string, error) {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	if err := c.SaveToServer(ctx, id); err != nil {
		return "", err
	}
	return "saved", nil
}

func parseVec(args []string) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return v, fmt.Errorf("invalid number %q", args[i])
		}
		v[i] = f
	}
	return v, nil
}

func parsePoint(x, y string) (mgl64.Vec2, error) {
	v, err := parseVec([]string{x, y, "0"})
	return mgl64.Vec2{v.X(), v.Y()}, err
}
