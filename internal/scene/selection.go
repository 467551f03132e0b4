package scene

import (
	"encoding/json"
	"fmt"
)

// SelectionKind tags a SelectionRef.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectFloor
	SelectRoom
	SelectFurniture
)

var kindNames = map[SelectionKind]string{
	SelectNone:      "none",
	SelectFloor:     "floor",
	SelectRoom:      "room",
	SelectFurniture: "furniture",
}

func (k SelectionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SelectionKind(%d)", int(k))
}

func (k SelectionKind) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown selection kind %d", int(k))
	}
	return json.Marshal(name)
}

func (k *SelectionKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "" {
		*k = SelectNone
		return nil
	}
	for kind, n := range kindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown selection kind %q", name)
}

// SelectionRef identifies the selected entity, if any. Only the ids relevant
// to Kind are set.
type SelectionRef struct {
	Kind        SelectionKind `json:"kind"`
	FloorID     string        `json:"floorId,omitempty"`
	RoomID      string        `json:"roomId,omitempty"`
	FurnitureID string        `json:"furnitureId,omitempty"`
}

func None() SelectionRef { return SelectionRef{} }

func FloorRef(floorID string) SelectionRef {
	return SelectionRef{Kind: SelectFloor, FloorID: floorID}
}

func RoomRef(floorID, roomID string) SelectionRef {
	return SelectionRef{Kind: SelectRoom, FloorID: floorID, RoomID: roomID}
}

func FurnitureRef(floorID, roomID, furnitureID string) SelectionRef {
	return SelectionRef{Kind: SelectFurniture, FloorID: floorID, RoomID: roomID, FurnitureID: furnitureID}
}

func (r SelectionRef) IsNone() bool { return r.Kind == SelectNone }

// WellFormed reports whether r carries exactly the ids its kind requires.
func (r SelectionRef) WellFormed() bool {
	switch r.Kind {
	case SelectNone:
		return r.FloorID == "" && r.RoomID == "" && r.FurnitureID == ""
	case SelectFloor:
		return r.FloorID != "" && r.RoomID == "" && r.FurnitureID == ""
	case SelectRoom:
		return r.FloorID != "" && r.RoomID != "" && r.FurnitureID == ""
	case SelectFurniture:
		return r.FloorID != "" && r.RoomID != "" && r.FurnitureID != ""
	}
	return false
}

// Within reports whether r points at ancestor or at something beneath it.
func (r SelectionRef) Within(ancestor SelectionRef) bool {
	switch ancestor.Kind {
	case SelectFloor:
		return r.Kind != SelectNone && r.FloorID == ancestor.FloorID
	case SelectRoom:
		return (r.Kind == SelectRoom || r.Kind == SelectFurniture) &&
			r.FloorID == ancestor.FloorID && r.RoomID == ancestor.RoomID
	case SelectFurniture:
		return r == ancestor
	}
	return false
}

// Room returns the room-level ref enclosing r, if r is a room or furniture ref.
func (r SelectionRef) Room() (SelectionRef, bool) {
	if r.Kind != SelectRoom && r.Kind != SelectFurniture {
		return SelectionRef{}, false
	}
	return RoomRef(r.FloorID, r.RoomID), true
}

func (r SelectionRef) String() string {
	switch r.Kind {
	case SelectFloor:
		return "floor:" + r.FloorID
	case SelectRoom:
		return "room:" + r.FloorID + "/" + r.RoomID
	case SelectFurniture:
		return "furniture:" + r.FloorID + "/" + r.RoomID + "/" + r.FurnitureID
	}
	return r.Kind.String()
}
