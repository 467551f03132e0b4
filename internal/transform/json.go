package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type vecObject struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// UnmarshalJSON accepts each triple either as [x,y,z] or as {"x":..,"y":..,"z":..}.
// A missing scale decodes as 1,1,1.
func (t *Transform) UnmarshalJSON(data []byte) error {
	var raw struct {
		Position json.RawMessage `json:"position"`
		Rotation json.RawMessage `json:"rotation"`
		Scale    json.RawMessage `json:"scale"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Identity()
	if err := decodeVec(raw.Position, &out.Position); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if err := decodeVec(raw.Rotation, &out.Rotation); err != nil {
		return fmt.Errorf("rotation: %w", err)
	}
	if err := decodeVec(raw.Scale, &out.Scale); err != nil {
		return fmt.Errorf("scale: %w", err)
	}
	*t = out
	return nil
}

func decodeVec(data json.RawMessage, dst *mgl64.Vec3) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '[':
		var arr []float64
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if len(arr) != 3 {
			return fmt.Errorf("expected 3 components, got %d", len(arr))
		}
		*dst = mgl64.Vec3{arr[0], arr[1], arr[2]}
	case '{':
		var obj vecObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*dst = mgl64.Vec3{obj.X, obj.Y, obj.Z}
	default:
		return fmt.Errorf("unsupported vector encoding %q", string(data))
	}
	return nil
}
