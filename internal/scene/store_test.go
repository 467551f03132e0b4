package scene

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"RoomEditor/internal/transform"

	"github.com/go-gl/mathgl/mgl64"
)

func sequentialIDs() IDSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
}

// buildHouse returns a scene with one floor holding two rooms, one chair each.
func buildHouse(t *testing.T, st *Store) (Scene, string, []string, []string) {
	t.Helper()
	s, floorID, err := st.AddFloor(Scene{}, "Ground")
	if err != nil {
		t.Fatal(err)
	}
	var rooms, items []string
	for _, name := range []string{"Lounge", "Kitchen"} {
		var roomID, itemID string
		s, roomID, err = st.AddRoom(s, floorID, name)
		if err != nil {
			t.Fatal(err)
		}
		s, itemID, err = st.AddFurniture(s, floorID, roomID, "chair-01", transform.Identity(), 1)
		if err != nil {
			t.Fatal(err)
		}
		rooms = append(rooms, roomID)
		items = append(items, itemID)
	}
	return s, floorID, rooms, items
}

func TestAddHierarchy(t *testing.T) {
	st := NewStore(sequentialIDs())

	s, floorID, err := st.AddFloor(Scene{}, "Ground")
	if err != nil {
		t.Fatalf("AddFloor failed: %v", err)
	}
	s, roomID, err := st.AddRoom(s, floorID, "Lounge")
	if err != nil {
		t.Fatalf("AddRoom failed: %v", err)
	}
	s, itemID, err := st.AddFurniture(s, floorID, roomID, "chair-01", transform.Identity(), 1)
	if err != nil {
		t.Fatalf("AddFurniture failed: %v", err)
	}

	if len(s.Floors) != 1 || s.RoomCount() != 1 || s.FurnitureCount() != 1 {
		t.Fatalf("Expected 1/1/1, got %d/%d/%d", len(s.Floors), s.RoomCount(), s.FurnitureCount())
	}
	item, ok := s.FindFurniture(FurnitureRef(floorID, roomID, itemID))
	if !ok {
		t.Fatal("New furniture should resolve")
	}
	if item.Quantity != 1 || item.ModelRef != "chair-01" {
		t.Errorf("Unexpected furniture %+v", item)
	}
	if err := Validate(s); err != nil {
		t.Errorf("Scene should validate: %v", err)
	}
}

func TestOperationsDoNotMutateInput(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, rooms, items := buildHouse(t, st)
	before := s.Clone()

	ref := FurnitureRef(floorID, rooms[0], items[0])
	moved := transform.At(mgl64.Vec3{3, 0, 3})
	if _, err := st.MoveFurniture(s, ref, moved); err != nil {
		t.Fatal(err)
	}
	if _, err := st.SetQuantity(s, ref, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := st.RemoveEntity(s, FloorRef(floorID)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := st.AddRoom(s, floorID, "Study"); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(before, s) {
		t.Error("Store operations must not modify the input scene")
	}
}

func TestAddFailsForMissingParent(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, _ := st.AddFloor(Scene{}, "Ground")

	if _, _, err := st.AddRoom(s, "nope", "Lounge"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, _, err := st.AddFurniture(s, floorID, "nope", "chair-01", transform.Identity(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	_, _, err := st.AddFurniture(s, "ghost", "nope", "chair-01", transform.Identity(), 1)
	if !errors.As(err, &nf) || nf.Ref.Kind != SelectRoom {
		t.Errorf("Expected room NotFoundError, got %v", err)
	}
}

func TestAddValidatesInput(t *testing.T) {
	st := NewStore(sequentialIDs())
	if _, _, err := st.AddFloor(Scene{}, "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for blank name, got %v", err)
	}

	s, floorID, _ := st.AddFloor(Scene{}, "Ground")
	s, roomID, _ := st.AddRoom(s, floorID, "Lounge")
	if _, _, err := st.AddFurniture(s, floorID, roomID, "", transform.Identity(), 1); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for empty modelRef, got %v", err)
	}
	if _, _, err := st.AddFurniture(s, floorID, roomID, "chair-01", transform.Identity(), 0); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for zero quantity, got %v", err)
	}
}

func TestAddFurnitureClampsScale(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, _ := st.AddFloor(Scene{}, "Ground")
	s, roomID, _ := st.AddRoom(s, floorID, "Lounge")

	tr := transform.Identity()
	tr.Scale = mgl64.Vec3{0, 1, -2}
	s, id, err := st.AddFurniture(s, floorID, roomID, "chair-01", tr, 1)
	if err != nil {
		t.Fatal(err)
	}
	item, _ := s.FindFurniture(FurnitureRef(floorID, roomID, id))
	if item.Transform.Scale != (mgl64.Vec3{transform.MinScale, 1, transform.MinScale}) {
		t.Errorf("Expected clamped scale, got %v", item.Transform.Scale)
	}
}

func TestMoveFurniture(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, rooms, items := buildHouse(t, st)
	ref := FurnitureRef(floorID, rooms[1], items[1])

	s, err := st.MoveFurniture(s, ref, transform.At(mgl64.Vec3{2, 0, -1}))
	if err != nil {
		t.Fatal(err)
	}
	item, _ := s.FindFurniture(ref)
	if item.Transform.Position != (mgl64.Vec3{2, 0, -1}) {
		t.Errorf("Expected moved position, got %v", item.Transform.Position)
	}

	stale := FurnitureRef(floorID, rooms[1], "gone")
	if _, err := st.MoveFurniture(s, stale, transform.Identity()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for stale ref, got %v", err)
	}
}

func TestRemoveFloorCascades(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, rooms, items := buildHouse(t, st)
	s, err := st.Select(s, FurnitureRef(floorID, rooms[1], items[1]))
	if err != nil {
		t.Fatal(err)
	}

	s, err = st.RemoveEntity(s, FloorRef(floorID))
	if err != nil {
		t.Fatalf("RemoveEntity failed: %v", err)
	}

	if len(s.Floors) != 0 || s.RoomCount() != 0 || s.FurnitureCount() != 0 {
		t.Errorf("Expected no orphans, got %d floors %d rooms %d furniture", len(s.Floors), s.RoomCount(), s.FurnitureCount())
	}
	if !s.Selection.IsNone() {
		t.Errorf("Selection inside removed floor should be cleared, got %s", s.Selection)
	}
	if err := Validate(s); err != nil {
		t.Errorf("Scene should validate after cascade: %v", err)
	}
}

func TestRemoveRoomKeepsUnrelatedSelection(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, rooms, items := buildHouse(t, st)
	keep := FurnitureRef(floorID, rooms[1], items[1])
	s, _ = st.Select(s, keep)

	s, err := st.RemoveEntity(s, RoomRef(floorID, rooms[0]))
	if err != nil {
		t.Fatal(err)
	}
	if s.Selection != keep {
		t.Errorf("Selection outside removed room should stay, got %s", s.Selection)
	}
	if s.RoomCount() != 1 || s.FurnitureCount() != 1 {
		t.Errorf("Expected 1 room and 1 furniture left, got %d/%d", s.RoomCount(), s.FurnitureCount())
	}
}

func TestRemoveRejectsMalformedRef(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, _, _, _ := buildHouse(t, st)

	bad := []SelectionRef{
		None(),
		{Kind: SelectionKind(42), FloorID: "x"},
		{Kind: SelectFurniture, FloorID: "x"},
	}
	for _, ref := range bad {
		out, err := st.RemoveEntity(s, ref)
		if err == nil {
			t.Errorf("Expected error for %+v", ref)
		}
		if !reflect.DeepEqual(out, s) {
			t.Errorf("Scene should be unchanged for %+v", ref)
		}
	}
}

func TestSetQuantityZeroFails(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, rooms, items := buildHouse(t, st)
	ref := FurnitureRef(floorID, rooms[0], items[0])

	out, err := st.SetQuantity(s, ref, 0)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if ve.Field != "quantity" {
		t.Errorf("Expected quantity field, got %q", ve.Field)
	}
	if !reflect.DeepEqual(out, s) {
		t.Error("Scene should be unchanged after rejected quantity")
	}

	out, err = st.SetQuantity(s, ref, 3)
	if err != nil {
		t.Fatal(err)
	}
	item, _ := out.FindFurniture(ref)
	if item.Quantity != 3 {
		t.Errorf("Expected quantity 3, got %d", item.Quantity)
	}
}

func TestSelectAndClear(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, rooms, _ := buildHouse(t, st)

	if _, err := st.Select(s, RoomRef(floorID, "ghost")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	s, err := st.Select(s, RoomRef(floorID, rooms[0]))
	if err != nil {
		t.Fatal(err)
	}
	if s.Selection.Kind != SelectRoom {
		t.Errorf("Expected room selection, got %s", s.Selection)
	}
	s = st.ClearSelection(s)
	if !s.Selection.IsNone() {
		t.Error("ClearSelection should leave None")
	}
}

func TestRenameAndDuplicate(t *testing.T) {
	st := NewStore(sequentialIDs())
	s, floorID, rooms, items := buildHouse(t, st)

	s, err := st.Rename(s, RoomRef(floorID, rooms[0]), "Living room")
	if err != nil {
		t.Fatal(err)
	}
	room, _ := s.FindRoom(floorID, rooms[0])
	if room.Name != "Living room" {
		t.Errorf("Expected renamed room, got %q", room.Name)
	}
	if _, err := st.Rename(s, FurnitureRef(floorID, rooms[0], items[0]), "x"); !errors.Is(err, ErrValidation) {
		t.Errorf("Furniture rename should be rejected, got %v", err)
	}

	s, dupID, err := st.DuplicateFurniture(s, FurnitureRef(floorID, rooms[0], items[0]), mgl64.Vec3{1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	dup, ok := s.FindFurniture(FurnitureRef(floorID, rooms[0], dupID))
	if !ok {
		t.Fatal("Duplicate should resolve")
	}
	if dup.Transform.Position != (mgl64.Vec3{1, 0, 0}) || dup.ModelRef != "chair-01" {
		t.Errorf("Unexpected duplicate %+v", dup)
	}
}

func TestValidateCatchesDuplicates(t *testing.T) {
	s := Scene{Floors: []Floor{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}}
	if err := Validate(s); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected duplicate id error, got %v", err)
	}

	s = Scene{Floors: []Floor{{ID: "a", Name: "A"}}, Selection: FloorRef("b")}
	if err := Validate(s); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected dangling selection error, got %v", err)
	}
}
