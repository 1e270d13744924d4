package doc

// Defaults returns the documents a fresh list is seeded with, in display order.
// The first one belongs to an item that starts out done.
func Defaults() []Document {
	return []Document{
		{
			Type: TypeDoc,
			Content: []Node{
				Paragraph(Text("done")),
				Callout("blank", "💡", Paragraph(Text("BLANK"))),
			},
		},
		sample("Content01", "info", "💡", "INFO"),
		sample("Content02", "warning", "⚠️", "WARNING"),
		sample("Content03", "error", "🚨", "ERROR"),
		sample("Content04", "success", "✅", "SUCCESS"),
	}
}

func sample(title, kind, emoji, label string) Document {
	return Document{
		Type: TypeDoc,
		Content: []Node{
			{
				Type:    TypeHeading,
				Attrs:   Attrs{"level": 1},
				Content: []Node{Text(title)},
			},
			Paragraph(Text("Simple "), Text("Todo Memo App", MarkItalic)),
			Callout(kind, emoji, Paragraph(Text(label))),
		},
	}
}
