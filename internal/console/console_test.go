package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"RoomEditor/editor"
	"RoomEditor/internal/renderer"
	"RoomEditor/internal/scheduler"
)

func newConsole(t *testing.T) (*Console, *editor.Controller) {
	t.Helper()
	n := 0
	ctrl := editor.New(editor.Options{
		Clock:   scheduler.NewManualClock(time.Unix(0, 0)),
		IDs:     func() string { n++; return fmt.Sprintf("id-%d", n) },
		Surface: renderer.Rect{Width: 800, Height: 600},
	})
	t.Cleanup(func() { ctrl.Close(true) })
	if err := ctrl.Mount(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	return New(ctrl, nil), ctrl
}

func run(t *testing.T, con *Console, lines ...string) string {
	t.Helper()
	var out string
	for _, line := range lines {
		res, err := con.Exec(context.Background(), line)
		if err != nil {
			t.Fatalf("%q failed: %v", line, err)
		}
		out = res
	}
	return out
}

func TestBuildScene(t *testing.T) {
	con, ctrl := newConsole(t)

	run(t, con,
		"add-floor Ground",
		"add-room id-1 Living Room",
		"add chair-01 1 0 2 4",
		"select id-1/id-2/id-3",
	)
	got := run(t, con, "tree")
	want := "Ground [id-1]\n  Living Room [id-2]\n    chair-01 x4 @ (1.00, 0.00, 2.00) [id-3] *"
	if got != want {
		t.Errorf("Expected tree:\n%s\ngot:\n%s", want, got)
	}
	if ctrl.Scene().FurnitureCount() != 1 {
		t.Errorf("Expected 1 furniture, got %d", ctrl.Scene().FurnitureCount())
	}
}

func TestEditSelectedAndUndo(t *testing.T) {
	con, ctrl := newConsole(t)
	run(t, con, "add-floor Ground", "add-room id-1 Lounge", "add sofa-02", "select id-1/id-2/id-3")

	run(t, con, "move 1 0 0", "rotate 90", "quantity 2")
	item := ctrl.Scene().Floors[0].Rooms[0].Furniture[0]
	if item.Transform.Position.X() != 1 || item.Quantity != 2 {
		t.Errorf("Unexpected item after edits: %+v", item)
	}

	run(t, con, "undo", "undo", "undo")
	item = ctrl.Scene().Floors[0].Rooms[0].Furniture[0]
	if item.Transform.Position.X() != 0 || item.Quantity != 1 {
		t.Errorf("Expected edits undone, got %+v", item)
	}
	if got := run(t, con, "undo", "undo", "undo", "undo"); got != "nothing to undo" {
		t.Errorf("Expected empty history message, got %q", got)
	}
}

func TestQuantityInlineError(t *testing.T) {
	con, _ := newConsole(t)
	run(t, con, "add-floor Ground", "add-room id-1 Lounge", "add chair-01", "select id-1/id-2/id-3")

	_, err := con.Exec(context.Background(), "quantity 0")
	if err == nil || !strings.Contains(err.Error(), "must be at least 1") {
		t.Errorf("Expected the inline validation message, got %v", err)
	}
}

func TestMenuAndDelete(t *testing.T) {
	con, ctrl := newConsole(t)
	run(t, con, "add-floor Ground", "add-room id-1 Lounge", "add chair-01", "select id-1/id-2/id-3")

	if got := run(t, con, "menu"); !strings.Contains(got, "Duplicate (duplicate)") {
		t.Errorf("Expected the furniture menu, got %q", got)
	}
	run(t, con, "duplicate", "delete")
	if ctrl.Scene().FurnitureCount() != 1 {
		t.Errorf("Expected duplicate then delete to leave 1 item, got %d", ctrl.Scene().FurnitureCount())
	}
}

func TestErrors(t *testing.T) {
	con, _ := newConsole(t)
	ctx := context.Background()

	if _, err := con.Exec(ctx, "teleport"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}
	var ue *UsageError
	if _, err := con.Exec(ctx, "add-room id-1"); !errors.As(err, &ue) {
		t.Errorf("Expected UsageError, got %v", err)
	}
	if _, err := con.Exec(ctx, "add chair-01"); !errors.Is(err, editor.ErrNoPlacement) {
		t.Errorf("Expected ErrNoPlacement without an active room, got %v", err)
	}
	if _, err := con.Exec(ctx, "save"); !errors.Is(err, editor.ErrNoRemote) {
		t.Errorf("Expected ErrNoRemote, got %v", err)
	}
}

func TestRunSession(t *testing.T) {
	con, ctrl := newConsole(t)
	script := strings.Join([]string{
		"# set up",
		"add-floor Ground",
		"",
		"bogus",
		"add-room id-1 Lounge",
		"quit",
		"add-floor Never",
	}, "\n")

	var out bytes.Buffer
	if err := con.Run(context.Background(), strings.NewReader(script), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "error: unknown command: bogus") {
		t.Errorf("Expected the error to be printed, got %q", out.String())
	}
	if len(ctrl.Scene().Floors) != 1 || ctrl.Scene().RoomCount() != 1 {
		t.Errorf("Expected commands before quit only, got %+v", ctrl.Scene())
	}
}

func TestHelpListsCommands(t *testing.T) {
	con, _ := newConsole(t)
	help := run(t, con, "help")
	for _, usage := range []string{"add-floor NAME", "drag X1 Y1 X2 Y2", "undo"} {
		if !strings.Contains(help, usage) {
			t.Errorf("Help is missing %q", usage)
		}
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, *editor.Controller, []string) (string, error) { return "", nil }
	r.Register(Command{Name: "zebra", Run: noop})
	r.Register(Command{Name: "alpha", Run: noop})
	r.Register(Command{Name: "middle", Run: noop})

	names := r.Names()
	if strings.Join(names, ",") != "alpha,middle,zebra" {
		t.Errorf("Expected sorted names, got %v", names)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup should miss unknown names")
	}
}

func TestViewport(t *testing.T) {
	con, _ := newConsole(t)
	run(t, con, "add-floor Ground", "add-room id-1 Lounge", "add chair-01", "viewport 400 300")

	if got := run(t, con, "click 200 150"); !strings.HasPrefix(got, "hit furniture:id-1/id-2/id-3") {
		t.Errorf("Expected a hit at the new surface center, got %q", got)
	}
	var ue *UsageError
	if _, err := con.Exec(context.Background(), "viewport 0 300"); !errors.As(err, &ue) {
		t.Errorf("Expected UsageError for an empty viewport, got %v", err)
	}
}
