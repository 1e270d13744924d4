package doc

import (
	"strconv"
	"strings"
)

// PlainText flattens d into text, one line per block.
func PlainText(d Document) string {
	var lines []string
	for _, b := range d.Content {
		lines = append(lines, blockLines(b)...)
	}
	return strings.Join(lines, "\n")
}

func blockLines(n Node) []string {
	if isInlineContainer(n) {
		return []string{inlineText(n)}
	}
	var out []string
	for _, c := range n.Content {
		out = append(out, blockLines(c)...)
	}
	return out
}

// isInlineContainer reports whether n holds inline content (text, breaks)
// rather than nested blocks.
func isInlineContainer(n Node) bool {
	switch n.Type {
	case TypeParagraph, TypeHeading, TypeCodeBlock:
		return true
	}
	for _, c := range n.Content {
		if c.Type != TypeText && c.Type != TypeHardBreak {
			return false
		}
	}
	return len(n.Content) > 0
}

func inlineText(n Node) string {
	var b strings.Builder
	for _, c := range n.Content {
		switch c.Type {
		case TypeText:
			b.WriteString(c.Text)
		case TypeHardBreak:
			b.WriteString("\n")
		default:
			b.WriteString(inlineText(c))
		}
	}
	return b.String()
}

// Title returns the text of the first block that has any, or "".
func Title(d Document) string {
	for _, b := range d.Content {
		for _, ln := range blockLines(b) {
			if s := strings.TrimSpace(ln); s != "" {
				return s
			}
		}
	}
	return ""
}

// WithTitle returns a copy of d whose first text-bearing block reads text.
// Marks on the old text are dropped. A document without such a block becomes
// Heading(text).
func WithTitle(d Document, text string) Document {
	out := d.Clone()
	if replaceFirstInline(&out, text) {
		return out
	}
	return Heading(text)
}

func replaceFirstInline(n *Node, text string) bool {
	for i := range n.Content {
		c := &n.Content[i]
		if isInlineContainer(*c) {
			c.Content = []Node{Text(text)}
			return true
		}
		if replaceFirstInline(c, text) {
			return true
		}
	}
	return false
}

// Markdown renders d as CommonMark for terminal display. Callouts become
// blockquotes led by their emoji; unknown blocks render their children.
func Markdown(d Document) string {
	var blocks []string
	for _, b := range d.Content {
		if s := blockMarkdown(b); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func blockMarkdown(n Node) string {
	switch n.Type {
	case TypeHeading:
		lvl := n.Level()
		if lvl < 1 {
			lvl = 1
		}
		if lvl > 6 {
			lvl = 6
		}
		return strings.Repeat("#", lvl) + " " + inlineMarkdown(n.Content)
	case TypeParagraph:
		return inlineMarkdown(n.Content)
	case TypeCodeBlock:
		return "```" + n.Attr("language") + "\n" + inlineText(n) + "\n```"
	case TypeHorizontalRule:
		return "---"
	case TypeBlockquote:
		return quote(childrenMarkdown(n), "")
	case TypeCallout:
		return quote(childrenMarkdown(n), n.Attr("emoji"))
	case TypeBulletList, TypeTaskList:
		return listMarkdown(n, func(int, Node) string { return "- " })
	case TypeOrderedList:
		start := 1
		if v, ok := n.IntAttr("order"); ok && v > 0 {
			start = v
		}
		return listMarkdown(n, func(i int, _ Node) string { return strconv.Itoa(start+i) + ". " })
	case TypeImage:
		return "![" + n.Attr("alt") + "](" + n.Attr("src") + ")"
	}
	if isInlineContainer(n) {
		return inlineMarkdown(n.Content)
	}
	return childrenMarkdown(n)
}

func childrenMarkdown(n Node) string {
	var parts []string
	for _, c := range n.Content {
		if s := blockMarkdown(c); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func quote(body, lead string) string {
	lines := strings.Split(body, "\n")
	if lead != "" {
		lines[0] = lead + " " + lines[0]
	}
	for i, ln := range lines {
		lines[i] = strings.TrimRight("> "+ln, " ")
	}
	return strings.Join(lines, "\n")
}

func listMarkdown(n Node, bullet func(int, Node) string) string {
	var out []string
	for i, item := range n.Content {
		prefix := bullet(i, item)
		if item.Type == TypeTaskListItem {
			box := "[ ] "
			if checked, _ := item.Attrs["checked"].(bool); checked {
				box = "[x] "
			}
			prefix += box
		}
		body := childrenMarkdown(item)
		pad := strings.Repeat(" ", len(prefix))
		lines := strings.Split(body, "\n")
		for j, ln := range lines {
			if j == 0 {
				lines[j] = prefix + ln
			} else if ln != "" {
				lines[j] = pad + ln
			}
		}
		out = append(out, strings.Join(lines, "\n"))
	}
	return strings.Join(out, "\n")
}

func inlineMarkdown(nodes []Node) string {
	var b strings.Builder
	for _, c := range nodes {
		switch c.Type {
		case TypeText:
			b.WriteString(markText(c))
		case TypeHardBreak:
			b.WriteString("  \n")
		case TypeImage:
			b.WriteString(blockMarkdown(c))
		default:
			b.WriteString(inlineMarkdown(c.Content))
		}
	}
	return b.String()
}

func markText(n Node) string {
	s := n.Text
	if s == "" {
		return ""
	}
	for _, m := range n.Marks {
		switch m.Type {
		case MarkCode:
			s = "`" + s + "`"
		case MarkBold:
			s = "**" + s + "**"
		case MarkItalic:
			s = "_" + s + "_"
		case MarkStrike:
			s = "~~" + s + "~~"
		case MarkLink:
			href, _ := m.Attrs["href"].(string)
			s = "[" + s + "](" + href + ")"
		}
	}
	return s
}
