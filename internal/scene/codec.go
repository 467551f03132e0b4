package scene

import (
	"encoding/json"
	"fmt"
)

// Encode serializes s in the wire shape shared by local storage and the
// scene endpoint: floors[].rooms[].furniture[] with array transforms.
func Encode(s Scene) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return data, nil
}

// Decode parses a scene and checks its integrity.
func Decode(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("decode scene: %w", err)
	}
	if err := Validate(s); err != nil {
		return Scene{}, fmt.Errorf("decode scene: %w", err)
	}
	return s, nil
}
