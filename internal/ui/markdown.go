package ui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/idilsaglam/podote/internal/doc"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width; building one is slow.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderDocument renders d as styled terminal text, wrapped at width.
// style is a glamour standard style name ("dark", "light", "notty", ...).
// When rendering fails the plain markdown is returned.
func RenderDocument(d doc.Document, style string, width int) string {
	md := strings.TrimSpace(doc.Markdown(d))
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	if style == "" {
		style = Current().Markdown
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md + "\n"
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}
