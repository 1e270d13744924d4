package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/podote/internal/model"
)

const maxTitleWidth = 80

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel frames lines in the current theme's border.
func Panel(lines []string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// Stats counts done and pending items.
func Stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

// Header is the one-line summary shown above lists.
func Header(items []model.Item) string {
	t := Current()
	d, p := Stats(items)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(items),
	)
}

// ListPanel renders items the way `ls` prints them. Indices shown are the
// 1-based positions commands take, also when grouped.
func ListPanel(items []model.Item, group bool) string {
	t := Current()
	d, p := Stats(items)

	var lines []string
	lines = append(lines, Header(items))
	lines = append(lines, t.Muted.Render(ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items, nil)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `podote add \"Buy milk\"`"))
	return Panel(lines)
}

// ItemLine renders a single row: index, checkbox, title, edit marker.
func ItemLine(pos int, it model.Item) string {
	t := Current()
	box, style := t.Muted.Render(t.BoxUnchecked), lipgloss.NewStyle()
	if it.Done {
		box, style = t.Success.Render(t.BoxChecked), t.Done
	}
	title := it.Title()
	if title == "" {
		title = t.Muted.Render("(untitled)")
	} else {
		if r := []rune(title); len(r) > maxTitleWidth {
			title = string(r[:maxTitleWidth-3]) + "..."
		}
		title = style.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%2d.", pos+1)), box, title)
	if it.Editable {
		line += " " + t.Accent.Render(t.SymEditing)
	}
	return line
}

// flatLines renders items; positions, when given, overrides the index column.
func flatLines(items []model.Item, positions []int) []string {
	if len(items) == 0 {
		return []string{Current().Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		pos := i
		if positions != nil {
			pos = positions[i]
		}
		out = append(out, ItemLine(pos, it))
	}
	return out
}

func groupLines(items []model.Item) []string {
	t := Current()
	var (
		pend, done       []model.Item
		pendPos, donePos []int
	)
	for i, it := range items {
		if it.Done {
			done, donePos = append(done, it), append(donePos, i)
		} else {
			pend, pendPos = append(pend, it), append(pendPos, i)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend, pendPos)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done, donePos)...)
	}
	return lines
}
