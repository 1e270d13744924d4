// Package store owns the ordered list of todo items.
//
// Every mutation builds a fresh slice from the current one and swaps it in, so
// readers only ever observe complete snapshots. After each successful mutation
// the new snapshot is written to the Backend (best effort: a failed write is
// logged and kept in SaveErr, the in-memory change stays) and handed to
// subscribers.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/idilsaglam/podote/internal/doc"
	"github.com/idilsaglam/podote/internal/model"
)

// Backend is the durable key-value side of the store.
type Backend interface {
	// Load returns the saved items; found is false when nothing was ever saved.
	Load(ctx context.Context) (items []model.Item, found bool, err error)
	// Save replaces the saved items with items.
	Save(ctx context.Context, items []model.Item) error
}

// Listener receives the snapshot produced by a mutation.
type Listener func(items []model.Item)

// Store is the ordered item collection. The zero value is not usable; build
// one with New or Open.
type Store struct {
	mu        sync.RWMutex
	items     []model.Item
	backend   Backend
	logger    *slog.Logger
	newID     func() string
	listeners []Listener
	saveErr   error
}

// Option configures a Store.
type Option func(*Store)

// WithBackend persists every mutation to b.
func WithBackend(b Backend) Option {
	return func(s *Store) { s.backend = b }
}

// WithLogger sets the logger used for mutation and persistence messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDFunc replaces the UUID generator used for new items.
func WithIDFunc(f func() string) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// New builds a store over items. It fails with ErrInvariantViolation when
// items carry duplicate ids or more than one editable item.
func New(items []model.Item, opts ...Option) (*Store, error) {
	s := &Store{
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	if err := Check(items); err != nil {
		return nil, err
	}
	s.items = model.CloneAll(items)
	return s, nil
}

// Open loads the saved items from b, or seeds the default list when b has
// never been written, and returns a store persisting to b.
func Open(ctx context.Context, b Backend, opts ...Option) (*Store, error) {
	items, found, err := b.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s, err := New(nil, append(opts, WithBackend(b))...)
	if err != nil {
		return nil, err
	}
	if !found {
		s.items = Seed(s.newID)
		s.logger.Debug("seeded default items", "count", len(s.items))
		s.persist()
		return s, nil
	}
	if err := Check(items); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s.items = items
	s.logger.Debug("loaded items", "count", len(items))
	return s, nil
}

// Items returns a deep copy of the current snapshot in display order.
func (s *Store) Items() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.items)
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.items, id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i].Clone(), true
}

// At returns the item at position i.
func (s *Store) At(i int) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return model.Item{}, fmt.Errorf("at %d (have %d): %w", i, len(s.items), ErrIndexOutOfRange)
	}
	return s.items[i].Clone(), nil
}

// SaveErr returns the error of the most recent write to the backend, or nil
// when it succeeded.
func (s *Store) SaveErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}

// Subscribe registers l to be called with each new snapshot. Listeners run
// on the mutating goroutine after the store lock is released.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// NormalText builds the single-heading document new items start with.
func (s *Store) NormalText(text string) doc.Document {
	return doc.Heading(text)
}

// Add puts a new editable item holding a heading of text at the front of the
// list and turns editing off on every other item. Empty text is accepted.
func (s *Store) Add(text string) (model.Item, error) {
	var added model.Item
	err := s.mutate("add", func(cur []model.Item) ([]model.Item, error) {
		id, err := s.freshID(cur)
		if err != nil {
			return nil, err
		}
		added = model.Item{ID: id, Content: doc.Heading(text), Editable: true}
		next := make([]model.Item, 0, len(cur)+1)
		next = append(next, added)
		for _, it := range cur {
			it.Editable = false
			next = append(next, it)
		}
		return next, nil
	})
	if err != nil {
		return model.Item{}, err
	}
	return added.Clone(), nil
}

// Edit replaces the content of item id with a copy of content.
func (s *Store) Edit(id string, content doc.Document) error {
	return s.mutate("edit", func(cur []model.Item) ([]model.Item, error) {
		i := indexOf(cur, id)
		if i < 0 {
			return nil, fmt.Errorf("edit %s: %w", id, ErrNotFound)
		}
		next := slices.Clone(cur)
		next[i].Content = content.Clone()
		return next, nil
	})
}

// SetEditable flips editing on item id and turns it off everywhere else.
// Calling it on the item being edited leaves nothing editable.
func (s *Store) SetEditable(id string) error {
	return s.mutate("set editable", func(cur []model.Item) ([]model.Item, error) {
		i := indexOf(cur, id)
		if i < 0 {
			return nil, fmt.Errorf("set editable %s: %w", id, ErrNotFound)
		}
		next := make([]model.Item, len(cur))
		for j, it := range cur {
			if j == i {
				it.Editable = !it.Editable
			} else {
				it.Editable = false
			}
			next[j] = it
		}
		return next, nil
	})
}

// Toggle flips done on item id. An item that becomes done moves to the end
// of the list in the same step; one that becomes not done stays put.
func (s *Store) Toggle(id string) error {
	return s.mutate("toggle", func(cur []model.Item) ([]model.Item, error) {
		i := indexOf(cur, id)
		if i < 0 {
			return nil, fmt.Errorf("toggle %s: %w", id, ErrNotFound)
		}
		it := cur[i]
		it.Done = !it.Done
		if it.Done {
			return moveToEnd(cur, i, it), nil
		}
		next := slices.Clone(cur)
		next[i] = it
		return next, nil
	})
}

// Drag takes the item at from out of the list and reinserts it at to,
// counted in the list without it. Both must lie in [0, Len()).
func (s *Store) Drag(from, to int) error {
	return s.mutate("drag", func(cur []model.Item) ([]model.Item, error) {
		n := len(cur)
		if from < 0 || from >= n || to < 0 || to >= n {
			return nil, fmt.Errorf("drag %d -> %d (have %d): %w", from, to, n, ErrIndexOutOfRange)
		}
		return move(cur, from, to), nil
	})
}

// Remove deletes item id.
func (s *Store) Remove(id string) error {
	return s.mutate("remove", func(cur []model.Item) ([]model.Item, error) {
		i := indexOf(cur, id)
		if i < 0 {
			return nil, fmt.Errorf("remove %s: %w", id, ErrNotFound)
		}
		return slices.Delete(slices.Clone(cur), i, i+1), nil
	})
}

// mutate runs f against the current snapshot and, when it succeeds, installs
// the result, persists it and notifies listeners.
func (s *Store) mutate(op string, f func(cur []model.Item) ([]model.Item, error)) error {
	s.mu.Lock()
	next, err := f(s.items)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("store op rejected", "op", op, "err", err)
		return err
	}
	s.items = next
	s.persist()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	s.logger.Debug("store op", "op", op, "items", len(next))
	for _, l := range listeners {
		l(model.CloneAll(next))
	}
	return nil
}

// persist writes the current snapshot. Callers hold s.mu.
func (s *Store) persist() {
	if s.backend == nil {
		return
	}
	s.saveErr = s.backend.Save(context.Background(), s.items)
	if s.saveErr != nil {
		s.logger.Warn("save failed", "err", s.saveErr)
	}
}

func (s *Store) freshID(cur []model.Item) (string, error) {
	for range 8 {
		id := s.newID()
		if id != "" && indexOf(cur, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("add: no unused id: %w", ErrInvariantViolation)
}

func indexOf(items []model.Item, id string) int {
	return slices.IndexFunc(items, func(it model.Item) bool { return it.ID == id })
}
