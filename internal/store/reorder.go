package store

import "github.com/idilsaglam/podote/internal/model"

// move returns a new slice with cur[from] taken out and reinserted at to,
// where to indexes the list after removal. Callers validate both indices.
func move(cur []model.Item, from, to int) []model.Item {
	moved := cur[from]

	rest := make([]model.Item, 0, len(cur)-1)
	rest = append(rest, cur[:from]...)
	rest = append(rest, cur[from+1:]...)

	out := make([]model.Item, 0, len(cur))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out
}

// moveToEnd returns a new slice with cur[i] dropped and it appended last.
func moveToEnd(cur []model.Item, i int, it model.Item) []model.Item {
	out := make([]model.Item, 0, len(cur))
	out = append(out, cur[:i]...)
	out = append(out, cur[i+1:]...)
	return append(out, it)
}
