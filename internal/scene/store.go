package scene

import (
	"strings"

	"RoomEditor/internal/transform"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// IDSource returns a fresh unique id.
type IDSource func() string

// UUIDs generates random v4 UUID strings.
func UUIDs() string { return uuid.NewString() }

// Store applies mutations to Scene values. Every operation returns a new
// Scene and leaves its input untouched; on error the input is returned as is.
type Store struct {
	newID IDSource
}

func NewStore(ids IDSource) *Store {
	if ids == nil {
		ids = UUIDs
	}
	return &Store{newID: ids}
}

func (st *Store) AddFloor(s Scene, name string) (Scene, string, error) {
	name, err := cleanName(name)
	if err != nil {
		return s, "", err
	}
	out := s.Clone()
	id := st.newID()
	out.Floors = append(out.Floors, Floor{ID: id, Name: name})
	return out, id, nil
}

func (st *Store) AddRoom(s Scene, floorID, name string) (Scene, string, error) {
	fi := s.floorIndex(floorID)
	if fi < 0 {
		return s, "", notFound(FloorRef(floorID))
	}
	name, err := cleanName(name)
	if err != nil {
		return s, "", err
	}
	out := s.Clone()
	id := st.newID()
	out.Floors[fi].Rooms = append(out.Floors[fi].Rooms, Room{ID: id, Name: name})
	return out, id, nil
}

func (st *Store) AddFurniture(s Scene, floorID, roomID, modelRef string, t transform.Transform, quantity int) (Scene, string, error) {
	fi, ri := s.roomIndex(floorID, roomID)
	if ri < 0 {
		return s, "", notFound(RoomRef(floorID, roomID))
	}
	if strings.TrimSpace(modelRef) == "" {
		return s, "", invalid("modelRef", "must not be empty")
	}
	if err := checkQuantity(quantity); err != nil {
		return s, "", err
	}
	if err := checkTransform(t); err != nil {
		return s, "", err
	}
	out := s.Clone()
	id := st.newID()
	room := &out.Floors[fi].Rooms[ri]
	room.Furniture = append(room.Furniture, Furniture{
		ID:        id,
		ModelRef:  modelRef,
		Transform: t.Normalize(),
		Quantity:  quantity,
	})
	return out, id, nil
}

// MoveFurniture replaces the transform of the referenced instance.
func (st *Store) MoveFurniture(s Scene, ref SelectionRef, t transform.Transform) (Scene, error) {
	if ref.Kind != SelectFurniture {
		return s, invalid("ref", "expected furniture reference, got %s", ref.Kind)
	}
	fi, ri, xi := s.furnitureIndex(ref.FloorID, ref.RoomID, ref.FurnitureID)
	if xi < 0 {
		return s, notFound(ref)
	}
	if err := checkTransform(t); err != nil {
		return s, err
	}
	out := s.Clone()
	out.Floors[fi].Rooms[ri].Furniture[xi].Transform = t.Normalize()
	return out, nil
}

// RemoveEntity removes the referenced entity and everything it owns. A
// selection inside the removed subtree is cleared.
func (st *Store) RemoveEntity(s Scene, ref SelectionRef) (Scene, error) {
	if !ref.WellFormed() || ref.IsNone() {
		return s, invalid("ref", "cannot remove %s", ref)
	}
	if !s.Resolves(ref) {
		return s, notFound(ref)
	}
	out := s.Clone()
	switch ref.Kind {
	case SelectFloor:
		fi := out.floorIndex(ref.FloorID)
		out.Floors = append(out.Floors[:fi], out.Floors[fi+1:]...)
	case SelectRoom:
		fi, ri := out.roomIndex(ref.FloorID, ref.RoomID)
		rooms := out.Floors[fi].Rooms
		out.Floors[fi].Rooms = append(rooms[:ri], rooms[ri+1:]...)
	case SelectFurniture:
		fi, ri, xi := out.furnitureIndex(ref.FloorID, ref.RoomID, ref.FurnitureID)
		items := out.Floors[fi].Rooms[ri].Furniture
		out.Floors[fi].Rooms[ri].Furniture = append(items[:xi], items[xi+1:]...)
	}
	if out.Selection.Within(ref) {
		out.Selection = None()
	}
	return out, nil
}

func (st *Store) Select(s Scene, ref SelectionRef) (Scene, error) {
	if !ref.WellFormed() {
		return s, invalid("ref", "malformed %s reference", ref.Kind)
	}
	if !s.Resolves(ref) {
		return s, notFound(ref)
	}
	out := s.Clone()
	out.Selection = ref
	return out, nil
}

func (st *Store) ClearSelection(s Scene) Scene {
	out := s.Clone()
	out.Selection = None()
	return out
}

func (st *Store) SetQuantity(s Scene, ref SelectionRef, quantity int) (Scene, error) {
	if ref.Kind != SelectFurniture {
		return s, invalid("ref", "expected furniture reference, got %s", ref.Kind)
	}
	if err := checkQuantity(quantity); err != nil {
		return s, err
	}
	fi, ri, xi := s.furnitureIndex(ref.FloorID, ref.RoomID, ref.FurnitureID)
	if xi < 0 {
		return s, notFound(ref)
	}
	out := s.Clone()
	out.Floors[fi].Rooms[ri].Furniture[xi].Quantity = quantity
	return out, nil
}

// Rename sets the name of a floor or room.
func (st *Store) Rename(s Scene, ref SelectionRef, name string) (Scene, error) {
	name, err := cleanName(name)
	if err != nil {
		return s, err
	}
	switch ref.Kind {
	case SelectFloor:
		fi := s.floorIndex(ref.FloorID)
		if fi < 0 {
			return s, notFound(ref)
		}
		out := s.Clone()
		out.Floors[fi].Name = name
		return out, nil
	case SelectRoom:
		fi, ri := s.roomIndex(ref.FloorID, ref.RoomID)
		if ri < 0 {
			return s, notFound(ref)
		}
		out := s.Clone()
		out.Floors[fi].Rooms[ri].Name = name
		return out, nil
	}
	return s, invalid("ref", "%s cannot be renamed", ref.Kind)
}

// DuplicateFurniture copies an instance into the same room, shifted by offset,
// and returns the new instance id.
func (st *Store) DuplicateFurniture(s Scene, ref SelectionRef, offset mgl64.Vec3) (Scene, string, error) {
	item, ok := s.FindFurniture(ref)
	if !ok {
		if ref.Kind != SelectFurniture {
			return s, "", invalid("ref", "expected furniture reference, got %s", ref.Kind)
		}
		return s, "", notFound(ref)
	}
	t := transform.Translate(item.Transform, offset, transform.AxisAll)
	return st.AddFurniture(s, ref.FloorID, ref.RoomID, item.ModelRef, t, item.Quantity)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "must not be empty")
	}
	return name, nil
}

func checkQuantity(q int) error {
	if q < 1 {
		return invalid("quantity", "must be at least 1, got %d", q)
	}
	return nil
}

func checkTransform(t transform.Transform) error {
	if !t.Normalize().Valid() {
		return invalid("transform", "components must be finite")
	}
	return nil
}
