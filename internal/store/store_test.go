package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/podote/internal/doc"
	"github.com/idilsaglam/podote/internal/model"
)

// memBackend records every save in memory.
type memBackend struct {
	items   []model.Item
	found   bool
	saves   int
	loadErr error
	saveErr error
}

func (m *memBackend) Load(context.Context) ([]model.Item, bool, error) {
	return m.items, m.found, m.loadErr
}

func (m *memBackend) Save(_ context.Context, items []model.Item) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = append([]model.Item(nil), items...)
	m.found = true
	return nil
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func item(id string) model.Item {
	return model.Item{ID: id, Content: doc.Heading(id)}
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func newStore(t *testing.T, items ...model.Item) *Store {
	t.Helper()
	s, err := New(items, WithIDFunc(seqIDs()))
	require.NoError(t, err)
	return s
}

func TestScenario(t *testing.T) {
	s := newStore(t, item("A"), item("B"))

	require.NoError(t, s.Toggle("A"))
	assert.Equal(t, []string{"B", "A"}, ids(s.Items()))
	a, _ := s.Get("A")
	assert.True(t, a.Done)

	n, err := s.Add("new")
	require.NoError(t, err)
	assert.Equal(t, []string{n.ID, "B", "A"}, ids(s.Items()))
	got := s.Items()
	assert.True(t, got[0].Editable)
	assert.False(t, got[1].Editable)

	require.NoError(t, s.Drag(1, 0))
	assert.Equal(t, []string{"B", n.ID, "A"}, ids(s.Items()))

	require.NoError(t, s.Remove("B"))
	assert.Equal(t, []string{n.ID, "A"}, ids(s.Items()))
}

func TestAdd(t *testing.T) {
	prev := item("x")
	prev.Editable = true
	s := newStore(t, prev, item("y"))

	added, err := s.Add("Buy milk")
	require.NoError(t, err)

	got := s.Items()
	require.Len(t, got, 3)
	assert.Equal(t, added, got[0])
	assert.True(t, got[0].Editable)
	assert.False(t, got[0].Done)
	assert.Equal(t, doc.Heading("Buy milk"), got[0].Content)
	for _, it := range got[1:] {
		assert.False(t, it.Editable, it.ID)
	}
}

func TestAddEmptyText(t *testing.T) {
	s := newStore(t)
	added, err := s.Add("")
	require.NoError(t, err)
	assert.Equal(t, doc.Heading(""), added.Content)
	assert.Equal(t, 1, s.Len())
}

func TestAddSkipsTakenIDs(t *testing.T) {
	calls := 0
	s, err := New([]model.Item{item("dup")}, WithIDFunc(func() string {
		calls++
		if calls < 3 {
			return "dup"
		}
		return "fresh"
	}))
	require.NoError(t, err)

	added, err := s.Add("x")
	require.NoError(t, err)
	assert.Equal(t, "fresh", added.ID)

	stuck, err := New([]model.Item{item("dup")}, WithIDFunc(func() string { return "dup" }))
	require.NoError(t, err)
	_, err = stuck.Add("x")
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Equal(t, 1, stuck.Len())
}

func TestEdit(t *testing.T) {
	s := newStore(t, item("a"), item("b"))
	content := doc.Defaults()[1]

	require.NoError(t, s.Edit("b", content))
	b, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, content, b.Content)
	assert.Equal(t, []string{"a", "b"}, ids(s.Items()))

	err := s.Edit("missing", content)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetEditable(t *testing.T) {
	s := newStore(t, item("a"), item("b"), item("c"))

	require.NoError(t, s.SetEditable("b"))
	assert.Equal(t, []bool{false, true, false}, editableFlags(s.Items()))

	require.NoError(t, s.SetEditable("c"))
	assert.Equal(t, []bool{false, false, true}, editableFlags(s.Items()))

	// Same item again turns editing off altogether.
	require.NoError(t, s.SetEditable("c"))
	assert.Equal(t, []bool{false, false, false}, editableFlags(s.Items()))

	assert.ErrorIs(t, s.SetEditable("nope"), ErrNotFound)
}

func editableFlags(items []model.Item) []bool {
	out := make([]bool, len(items))
	for i, it := range items {
		out[i] = it.Editable
	}
	return out
}

func TestToggle(t *testing.T) {
	s := newStore(t, item("a"), item("b"), item("c"))

	require.NoError(t, s.Toggle("a"))
	assert.Equal(t, []string{"b", "c", "a"}, ids(s.Items()))

	require.NoError(t, s.Toggle("b"))
	assert.Equal(t, []string{"c", "a", "b"}, ids(s.Items()))

	// Un-done stays in place.
	require.NoError(t, s.Toggle("a"))
	assert.Equal(t, []string{"c", "a", "b"}, ids(s.Items()))
	a, _ := s.Get("a")
	assert.False(t, a.Done)

	assert.ErrorIs(t, s.Toggle("zzz"), ErrNotFound)
}

func TestToggleKeepsEditable(t *testing.T) {
	e := item("a")
	e.Editable = true
	s := newStore(t, e, item("b"))

	require.NoError(t, s.Toggle("a"))
	got := s.Items()
	assert.Equal(t, "a", got[1].ID)
	assert.True(t, got[1].Done)
	assert.True(t, got[1].Editable)
}

func TestDrag(t *testing.T) {
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 0, []string{"a", "b", "c", "d"}},
		{0, 3, []string{"b", "c", "d", "a"}},
		{3, 0, []string{"d", "a", "b", "c"}},
		{1, 2, []string{"a", "c", "b", "d"}},
		{2, 1, []string{"a", "c", "b", "d"}},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d_to_%d", tc.from, tc.to), func(t *testing.T) {
			s := newStore(t, item("a"), item("b"), item("c"), item("d"))
			require.NoError(t, s.Drag(tc.from, tc.to))
			assert.Equal(t, tc.want, ids(s.Items()))
		})
	}
}

func TestDragOutOfRange(t *testing.T) {
	s := newStore(t, item("a"), item("b"))
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		err := s.Drag(c[0], c[1])
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "%v", c)
	}
	assert.Equal(t, []string{"a", "b"}, ids(s.Items()))

	empty := newStore(t)
	assert.ErrorIs(t, empty.Drag(0, 0), ErrIndexOutOfRange)
}

func TestDragMovesDoneItemsFreely(t *testing.T) {
	s := newStore(t, item("a"), item("b"))
	require.NoError(t, s.Toggle("a"))
	require.NoError(t, s.Drag(1, 0))
	got := s.Items()
	assert.Equal(t, "a", got[0].ID)
	assert.True(t, got[0].Done)
}

func TestRemove(t *testing.T) {
	s := newStore(t, item("a"), item("b"), item("c"))
	require.NoError(t, s.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Items()))

	// An unknown id must not take the last item with it.
	assert.ErrorIs(t, s.Remove("b"), ErrNotFound)
	assert.Equal(t, []string{"a", "c"}, ids(s.Items()))
}

func TestSnapshotsAreIndependent(t *testing.T) {
	s := newStore(t, item("a"), item("b"))
	before := s.Items()
	before[0].Done = true

	require.NoError(t, s.Drag(0, 1))
	assert.Equal(t, []string{"a", "b"}, ids(before))
	a, _ := s.Get("a")
	assert.False(t, a.Done)
}

func TestContentIsNotShared(t *testing.T) {
	s := newStore(t, item("a"), item("b"))

	c := doc.Heading("original")
	require.NoError(t, s.Edit("a", c))
	c.Content[0].Content[0].Text = "changed by caller"
	c.Content[0].Attrs["level"] = 5

	snap := s.Items()
	snap[0].Content.Content[0].Content[0].Text = "changed via Items"

	got, ok := s.Get("a")
	require.True(t, ok)
	got.Content.Content[0].Content[0].Text = "changed via Get"

	at, err := s.At(0)
	require.NoError(t, err)
	at.Content.Content[0].Attrs["level"] = 1

	var heard []model.Item
	s.Subscribe(func(items []model.Item) { heard = items })
	require.NoError(t, s.Toggle("b"))
	require.NotEmpty(t, heard)
	heard[0].Content.Content[0].Content[0].Text = "changed via listener"

	final, _ := s.Get("a")
	assert.Equal(t, "original", final.Title())
	assert.Equal(t, doc.TitleLevel, final.Content.Content[0].Level())
}

func TestAddedItemIsACopy(t *testing.T) {
	s := newStore(t, item("a"))
	added, err := s.Add("fresh")
	require.NoError(t, err)
	added.Content.Content[0].Content[0].Text = "mutated"

	got, _ := s.Get(added.ID)
	assert.Equal(t, "fresh", got.Title())
}

func TestNewCopiesInput(t *testing.T) {
	items := []model.Item{item("a")}
	s := newStore(t, items...)
	items[0].Content.Content[0].Content[0].Text = "mutated"

	got, _ := s.Get("a")
	assert.Equal(t, "a", got.Title())
}

func TestNewRejectsBrokenState(t *testing.T) {
	e1, e2 := item("a"), item("b")
	e1.Editable, e2.Editable = true, true

	cases := map[string][]model.Item{
		"duplicate id": {item("a"), item("a")},
		"empty id":     {{Content: doc.Heading("x")}},
		"two editable": {e1, e2},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(items)
			assert.ErrorIs(t, err, ErrInvariantViolation)
		})
	}
}

func TestPersistsEveryMutation(t *testing.T) {
	b := &memBackend{found: true, items: []model.Item{item("a"), item("b")}}
	s, err := Open(context.Background(), b, WithIDFunc(seqIDs()))
	require.NoError(t, err)
	assert.Equal(t, 0, b.saves)

	_, err = s.Add("c")
	require.NoError(t, err)
	require.NoError(t, s.Toggle("a"))
	require.NoError(t, s.Drag(0, 1))
	require.NoError(t, s.SetEditable("b"))
	require.NoError(t, s.Edit("b", doc.Heading("bee")))
	require.NoError(t, s.Remove("id-1"))
	assert.Equal(t, 6, b.saves)
	assert.Equal(t, s.Items(), b.items)

	// Rejected operations write nothing.
	assert.Error(t, s.Remove("missing"))
	assert.Error(t, s.Drag(5, 0))
	assert.Equal(t, 6, b.saves)
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	boom := errors.New("disk full")
	b := &memBackend{found: true, items: []model.Item{item("a")}}
	s, err := Open(context.Background(), b)
	require.NoError(t, err)

	b.saveErr = boom
	require.NoError(t, s.Toggle("a"))
	a, _ := s.Get("a")
	assert.True(t, a.Done)
	assert.ErrorIs(t, s.SaveErr(), boom)

	b.saveErr = nil
	require.NoError(t, s.Toggle("a"))
	assert.NoError(t, s.SaveErr())
}

func TestOpenSeedsDefaults(t *testing.T) {
	b := &memBackend{}
	s, err := Open(context.Background(), b, WithIDFunc(seqIDs()))
	require.NoError(t, err)

	got := s.Items()
	require.Len(t, got, len(doc.Defaults()))
	assert.True(t, got[0].Done)
	for _, it := range got[1:] {
		assert.False(t, it.Done)
	}
	assert.Equal(t, "Content01", got[1].Title())
	assert.Equal(t, 1, b.saves, "seed is written so ids stay stable")
	assert.Equal(t, got, b.items)
}

func TestOpenKeepsEmptySavedList(t *testing.T) {
	b := &memBackend{found: true, items: []model.Item{}}
	s, err := Open(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), &memBackend{loadErr: errors.New("io")})
	assert.Error(t, err)

	_, err = Open(context.Background(), &memBackend{found: true, items: []model.Item{item("a"), item("a")}})
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestSubscribe(t *testing.T) {
	s := newStore(t, item("a"), item("b"))

	var seen [][]string
	s.Subscribe(func(items []model.Item) {
		// Reading back from the store inside a listener must not deadlock.
		assert.Equal(t, items, s.Items())
		seen = append(seen, ids(items))
	})

	require.NoError(t, s.Toggle("a"))
	assert.Error(t, s.Toggle("missing"))
	require.NoError(t, s.Remove("b"))

	assert.Equal(t, [][]string{{"b", "a"}, {"a"}}, seen)
}

func TestAt(t *testing.T) {
	s := newStore(t, item("a"))
	it, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, "a", it.ID)

	_, err = s.At(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNormalText(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, doc.Heading("hi"), s.NormalText("hi"))
}

// TestRandomOperations drives the store with random operation sequences and
// checks the list-wide rules after every step.
func TestRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newStore(t)

	for step := 0; step < 2000; step++ {
		before := s.Items()
		pick := func() string {
			if len(before) == 0 || rng.Intn(10) == 0 {
				return "unknown"
			}
			return before[rng.Intn(len(before))].ID
		}

		switch op := rng.Intn(6); op {
		case 0:
			_, err := s.Add(fmt.Sprintf("item %d", step))
			require.NoError(t, err)
			after := s.Items()
			require.Len(t, after, len(before)+1)
			assert.True(t, after[0].Editable)
			assert.False(t, after[0].Done)
		case 1:
			id := pick()
			err := s.Edit(id, doc.Heading("edited"))
			checkMissing(t, err, id, before)
		case 2:
			id := pick()
			err := s.SetEditable(id)
			checkMissing(t, err, id, before)
		case 3:
			id := pick()
			wasDone := false
			pos := -1
			for i, it := range before {
				if it.ID == id {
					wasDone, pos = it.Done, i
				}
			}
			err := s.Toggle(id)
			checkMissing(t, err, id, before)
			if err == nil {
				after := s.Items()
				if !wasDone {
					last := after[len(after)-1]
					assert.Equal(t, id, last.ID)
					assert.True(t, last.Done)
				} else {
					assert.Equal(t, id, after[pos].ID)
					assert.False(t, after[pos].Done)
				}
			}
		case 4:
			n := len(before)
			from, to := rng.Intn(n+2)-1, rng.Intn(n+2)-1
			err := s.Drag(from, to)
			if from < 0 || from >= n || to < 0 || to >= n {
				require.ErrorIs(t, err, ErrIndexOutOfRange)
				assert.Equal(t, before, s.Items())
			} else {
				require.NoError(t, err)
				assert.ElementsMatch(t, ids(before), ids(s.Items()))
				assert.Equal(t, before[from].ID, s.Items()[to].ID)
			}
		case 5:
			id := pick()
			err := s.Remove(id)
			checkMissing(t, err, id, before)
		}

		require.NoError(t, Check(s.Items()), "step %d", step)
	}
}

func checkMissing(t *testing.T, err error, id string, before []model.Item) {
	t.Helper()
	if indexOf(before, id) >= 0 {
		require.NoError(t, err)
		return
	}
	require.ErrorIs(t, err, ErrNotFound)
}
