package scene

import (
	"fmt"
	"strings"
)

// Validate checks scene integrity: non-empty and unique ids, positive
// quantities, usable transforms and a selection that resolves.
func Validate(s Scene) error {
	seen := make(map[string]struct{})
	claim := func(kind, id string) error {
		if strings.TrimSpace(id) == "" {
			return invalid(kind, "empty id")
		}
		if _, dup := seen[id]; dup {
			return invalid(kind, "duplicate id %q", id)
		}
		seen[id] = struct{}{}
		return nil
	}

	for _, f := range s.Floors {
		if err := claim("floor", f.ID); err != nil {
			return err
		}
		for _, r := range f.Rooms {
			if err := claim("room", r.ID); err != nil {
				return err
			}
			for _, item := range r.Furniture {
				if err := claim("furniture", item.ID); err != nil {
					return err
				}
				if item.ModelRef == "" {
					return invalid("furniture", "%s has no modelRef", item.ID)
				}
				if item.Quantity < 1 {
					return invalid("furniture", "%s has quantity %d", item.ID, item.Quantity)
				}
				if !item.Transform.Valid() {
					return invalid("furniture", "%s has an invalid transform", item.ID)
				}
			}
		}
	}

	if !s.Selection.WellFormed() {
		return invalid("selection", "malformed %s reference", s.Selection.Kind)
	}
	if !s.Resolves(s.Selection) {
		return fmt.Errorf("selection %s: %w", s.Selection, notFound(s.Selection))
	}
	return nil
}
