package store

import (
	"github.com/idilsaglam/podote/internal/doc"
	"github.com/idilsaglam/podote/internal/model"
)

// Seed builds the list a new installation starts with: the default documents
// with fresh ids, only the first one done, none editable.
func Seed(newID func() string) []model.Item {
	docs := doc.Defaults()
	items := make([]model.Item, 0, len(docs))
	for i, d := range docs {
		items = append(items, model.Item{ID: newID(), Content: d, Done: i == 0})
	}
	return items
}
