package model

import "github.com/idilsaglam/podote/internal/doc"

// Item is the domain model for a todo entry.
// Content is opaque to everything but the doc package and the editors.
type Item struct {
	ID       string       `json:"id"`
	Content  doc.Document `json:"content"`
	Done     bool         `json:"done"`
	Editable bool         `json:"editable"`
}

// Title is the first line of text in the item's document.
func (it Item) Title() string { return doc.Title(it.Content) }

// Clone returns a copy of it that shares no memory with it.
func (it Item) Clone() Item {
	it.Content = it.Content.Clone()
	return it
}

// CloneAll deep-copies items, keeping nil as nil.
func CloneAll(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
