package scene

import (
	"RoomEditor/internal/transform"
)

// Scene is the root aggregate of one editing session. It is the unit of
// undo/redo snapshots and of persistence.
type Scene struct {
	Floors    []Floor      `json:"floors"`
	Selection SelectionRef `json:"selection"`
}

type Floor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Rooms []Room `json:"rooms"`
}

type Room struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Furniture []Furniture `json:"furniture"`
}

// Furniture is one placed model. Furniture order inside a room is insertion
// order and only matters for display.
type Furniture struct {
	ID        string              `json:"id"`
	ModelRef  string              `json:"modelRef"`
	Transform transform.Transform `json:"transform"`
	Quantity  int                 `json:"quantity"`
}

// Clone returns a deep copy. Nil slices stay nil so clones compare equal
// with reflect.DeepEqual.
func (s Scene) Clone() Scene {
	out := Scene{Selection: s.Selection}
	if s.Floors != nil {
		out.Floors = make([]Floor, len(s.Floors))
		for i, f := range s.Floors {
			out.Floors[i] = f.Clone()
		}
	}
	return out
}

func (f Floor) Clone() Floor {
	out := Floor{ID: f.ID, Name: f.Name}
	if f.Rooms != nil {
		out.Rooms = make([]Room, len(f.Rooms))
		for i, r := range f.Rooms {
			out.Rooms[i] = r.Clone()
		}
	}
	return out
}

func (r Room) Clone() Room {
	out := Room{ID: r.ID, Name: r.Name}
	if r.Furniture != nil {
		out.Furniture = make([]Furniture, len(r.Furniture))
		copy(out.Furniture, r.Furniture)
	}
	return out
}

// IsEmpty reports a scene with no floors and no selection.
func (s Scene) IsEmpty() bool {
	return len(s.Floors) == 0 && s.Selection.IsNone()
}

func (s Scene) FindFloor(floorID string) (Floor, bool) {
	if i := s.floorIndex(floorID); i >= 0 {
		return s.Floors[i], true
	}
	return Floor{}, false
}

func (s Scene) FindRoom(floorID, roomID string) (Room, bool) {
	fi, ri := s.roomIndex(floorID, roomID)
	if ri < 0 {
		return Room{}, false
	}
	return s.Floors[fi].Rooms[ri], true
}

// FindFurniture resolves a furniture reference.
func (s Scene) FindFurniture(ref SelectionRef) (Furniture, bool) {
	if ref.Kind != SelectFurniture {
		return Furniture{}, false
	}
	fi, ri, xi := s.furnitureIndex(ref.FloorID, ref.RoomID, ref.FurnitureID)
	if xi < 0 {
		return Furniture{}, false
	}
	return s.Floors[fi].Rooms[ri].Furniture[xi], true
}

// Resolves reports whether every id named by ref exists. None always resolves.
func (s Scene) Resolves(ref SelectionRef) bool {
	switch ref.Kind {
	case SelectNone:
		return true
	case SelectFloor:
		return ref.FloorID != "" && s.floorIndex(ref.FloorID) >= 0
	case SelectRoom:
		_, ri := s.roomIndex(ref.FloorID, ref.RoomID)
		return ri >= 0
	case SelectFurniture:
		_, _, xi := s.furnitureIndex(ref.FloorID, ref.RoomID, ref.FurnitureID)
		return xi >= 0
	}
	return false
}

// FurnitureCount returns the number of placed instances across all floors.
func (s Scene) FurnitureCount() int {
	n := 0
	for _, f := range s.Floors {
		for _, r := range f.Rooms {
			n += len(r.Furniture)
		}
	}
	return n
}

// RoomCount returns the number of rooms across all floors.
func (s Scene) RoomCount() int {
	n := 0
	for _, f := range s.Floors {
		n += len(f.Rooms)
	}
	return n
}

// EachFurniture calls fn for every placed instance in scene order until fn returns false.
func (s Scene) EachFurniture(fn func(ref SelectionRef, item Furniture) bool) {
	for _, f := range s.Floors {
		for _, r := range f.Rooms {
			for _, item := range r.Furniture {
				if !fn(FurnitureRef(f.ID, r.ID, item.ID), item) {
					return
				}
			}
		}
	}
}

func (s Scene) floorIndex(floorID string) int {
	if floorID == "" {
		return -1
	}
	for i := range s.Floors {
		if s.Floors[i].ID == floorID {
			return i
		}
	}
	return -1
}

func (s Scene) roomIndex(floorID, roomID string) (int, int) {
	fi := s.floorIndex(floorID)
	if fi < 0 || roomID == "" {
		return fi, -1
	}
	for i := range s.Floors[fi].Rooms {
		if s.Floors[fi].Rooms[i].ID == roomID {
			return fi, i
		}
	}
	return fi, -1
}

func (s Scene) furnitureIndex(floorID, roomID, furnitureID string) (int, int, int) {
	fi, ri := s.roomIndex(floorID, roomID)
	if ri < 0 || furnitureID == "" {
		return fi, ri, -1
	}
	items := s.Floors[fi].Rooms[ri].Furniture
	for i := range items {
		if items[i].ID == furnitureID {
			return fi, ri, i
		}
	}
	return fi, ri, -1
}
