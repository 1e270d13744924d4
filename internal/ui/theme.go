package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style

	Border lipgloss.Border

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymEditing, SymFail      string

	// Markdown is the glamour standard style for documents.
	Markdown string
}

var current = classic()

// SetTheme switches the theme by name; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }

func classic() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Name:     "classic",
		Title:    s.Bold(true),
		Muted:    s.Faint(true),
		Accent:   s.Foreground(lipgloss.Color("12")),
		Success:  s.Foreground(lipgloss.Color("42")),
		Error:    s.Foreground(lipgloss.Color("9")).Bold(true),
		Pending:  s.Foreground(lipgloss.Color("214")),
		Selected: s.Bold(true).Reverse(true),
		Done:     s.Faint(true).Strikethrough(true),
		Help:     s.Faint(true),
		Border:   lipgloss.NormalBorder(),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•", SymEditing: "✎", SymFail: "✖",
		Markdown: "dark",
	}
}

func neon() Theme {
	t := classic()
	t.Name = "neon"
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.Border = lipgloss.RoundedBorder()
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	return t
}

func mono() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Name:  "mono",
		Title: s, Muted: s, Accent: s, Success: s, Error: s, Pending: s,
		Selected: s.Reverse(true), Done: s, Help: s,
		Border: lipgloss.ASCIIBorder(),

		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymPending: "-", SymEditing: "*", SymFail: "!",
		Markdown: "notty",
	}
}
