package store

import (
	"fmt"

	"github.com/idilsaglam/podote/internal/model"
)

// Check reports ErrInvariantViolation when items repeat an id, carry an empty
// id or have more than one item in edit mode.
func Check(items []model.Item) error {
	seen := make(map[string]int, len(items))
	editable := -1
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("item %d has no id: %w", i, ErrInvariantViolation)
		}
		if j, dup := seen[it.ID]; dup {
			return fmt.Errorf("items %d and %d share id %s: %w", j, i, it.ID, ErrInvariantViolation)
		}
		seen[it.ID] = i
		if it.Editable {
			if editable >= 0 {
				return fmt.Errorf("items %d and %d are both editable: %w", editable, i, ErrInvariantViolation)
			}
			editable = i
		}
	}
	return nil
}
