package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/podote/internal/doc"
	"github.com/idilsaglam/podote/internal/model"
	"github.com/idilsaglam/podote/internal/store"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item model.Item
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.item.Title() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return doc.PlainText(i.item.Content) }

// itemDelegate renders items on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = Current().Selected.Render(">") + " "
	}
	fmt.Fprintln(w, prefix+ItemLine(index, it.item))
}

// snapshotMsg carries the list produced by a store mutation.
type snapshotMsg []model.Item

type keyMap struct {
	Toggle, Editable, Edit, Add, Remove, Up, Down, Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "done")),
		Editable: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "editable")),
		Edit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit title")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Up:       key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "drag up")),
		Down:     key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "drag down")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) extra() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Editable, k.Edit, k.Remove, k.Up, k.Down}
}

type modelTUI struct {
	store     *store.Store
	snapshots chan []model.Item
	keys      keyMap

	list list.Model
	ti   textinput.Model

	// Inline add / edit share the text input.
	adding  bool
	editing bool
	editID  string

	// selectID, when set, moves the cursor to that item on the next snapshot.
	selectID string
	status   string
}

// NewTUI builds the interactive list model over s. The store persists each
// change itself; quitting saves nothing extra.
func NewTUI(s *store.Store) tea.Model {
	return newModel(s)
}

// RunTUI starts the Bubble Tea list in the alternate screen.
func RunTUI(s *store.Store) error {
	p := tea.NewProgram(newModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(s *store.Store) modelTUI {
	m := modelTUI{
		store:     s,
		snapshots: make(chan []model.Item, 1),
		keys:      newKeyMap(),
	}

	// Keep only the newest snapshot; the model always rebuilds from the latest.
	s.Subscribe(func(items []model.Item) {
		for {
			select {
			case m.snapshots <- items:
				return
			default:
				select {
				case <-m.snapshots:
				default:
				}
			}
		}
	})

	t := Current()
	l := list.New(toListItems(s.Items()), itemDelegate{}, 80, 20)
	l.Title = Header(s.Items())
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	// Quit is handled here so esc can leave inline modes first.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return m.keys.extra()[:3] }
	l.AdditionalFullHelpKeys = m.keys.extra
	m.list = l

	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200
	return m
}

func toListItems(items []model.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, listItem{item: it})
	}
	return out
}

// waitForSnapshot delivers the next store snapshot as a message.
func waitForSnapshot(ch <-chan []model.Item) tea.Cmd {
	return func() tea.Msg { return snapshotMsg(<-ch) }
}

// Init and Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return waitForSnapshot(m.snapshots) }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil
	case snapshotMsg:
		cmd := m.apply(msg)
		return m, tea.Batch(cmd, waitForSnapshot(m.snapshots))
	case tea.KeyMsg:
		if m.adding || m.editing {
			return m.updateInput(msg)
		}
		if m.list.FilterState() != list.Filtering {
			if next, cmd, handled := m.handleKey(msg); handled {
				return next, cmd
			}
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// apply rebuilds the list from a snapshot, keeping the cursor on selectID
// when one is pending. The returned command refilters an active filter.
func (m *modelTUI) apply(items []model.Item) tea.Cmd {
	cmd := m.list.SetItems(toListItems(items))
	m.list.Title = Header(items)
	if m.selectID != "" {
		for i, it := range items {
			if it.ID == m.selectID {
				m.list.Select(i)
				break
			}
		}
		m.selectID = ""
	}
	if err := m.store.SaveErr(); err != nil {
		m.status = "save failed: " + err.Error()
	}
	return cmd
}

func (m modelTUI) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

func (m modelTUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
			return m, nil, false
		}
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.ti.SetValue("")
		m.ti.Placeholder = "New item title..."
		return m, m.ti.Focus(), true

	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.selected(); ok {
			return m, m.report(m.store.Toggle(it.ID)), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Editable):
		if it, ok := m.selected(); ok {
			return m, m.report(m.store.SetEditable(it.ID)), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		if !it.Editable {
			m.status = "press e to make this item editable first"
			return m, nil, true
		}
		m.editing = true
		m.editID = it.ID
		m.ti.SetValue(it.Title())
		m.ti.CursorEnd()
		m.ti.Placeholder = "Edit item title..."
		return m, m.ti.Focus(), true

	case key.Matches(msg, m.keys.Remove):
		if it, ok := m.selected(); ok {
			return m, m.report(m.store.Remove(it.ID)), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if m.list.FilterState() != list.Unfiltered {
			m.status = "clear the filter to reorder"
			return m, nil, true
		}
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		from := m.list.Index()
		to := from + 1
		if key.Matches(msg, m.keys.Up) {
			to = from - 1
		}
		if to < 0 || to >= len(m.list.Items()) {
			return m, nil, true
		}
		m.selectID = it.ID
		return m, m.report(m.store.Drag(from, to)), true
	}
	return m, nil, false
}

func (m modelTUI) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.ti.Value())
		if text == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		var cmd tea.Cmd
		if m.adding {
			added, err := m.store.Add(text)
			if err == nil {
				m.selectID = added.ID
			}
			cmd = m.report(err)
		} else if it, ok := m.store.Get(m.editID); ok {
			cmd = m.report(m.store.Edit(it.ID, doc.WithTitle(it.Content, text)))
		}
		m.closeInput()
		return m, cmd
	case "esc":
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *modelTUI) closeInput() {
	m.adding, m.editing, m.editID = false, false, ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// report shows err, if any, and redraws from the store's current snapshot.
func (m *modelTUI) report(err error) tea.Cmd {
	if err != nil {
		m.status = err.Error()
	}
	return m.apply(m.store.Items())
}

func (m modelTUI) View() string {
	t := Current()
	content := m.list.View()
	if m.adding || m.editing {
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		content += "\n" + t.Error.Render(m.status)
	}
	return Panel([]string{content})
}
