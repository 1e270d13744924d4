// Package doc holds the structured rich-text document stored in every todo item.
//
// A Document is a tree of typed nodes with attributes, marks and text, the same
// JSON shape the browser editor emits. The store treats it as an opaque value;
// this package only builds, copies and flattens it for terminal output.
package doc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Node types used by this package. Any other type is carried through untouched.
const (
	TypeDoc            = "doc"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeText           = "text"
	TypeCallout        = "callout"
	TypeBulletList     = "bulletList"
	TypeOrderedList    = "orderedList"
	TypeTaskList       = "taskList"
	TypeListItem       = "listItem"
	TypeTaskListItem   = "taskListItem"
	TypeCodeBlock      = "codeBlock"
	TypeBlockquote     = "blockquote"
	TypeHorizontalRule = "horizontalRule"
	TypeHardBreak      = "hardBreak"
	TypeImage          = "image"
)

// Mark types rendered by Markdown.
const (
	MarkBold   = "bold"
	MarkItalic = "italic"
	MarkCode   = "code"
	MarkStrike = "strike"
	MarkLink   = "link"
)

// TitleLevel is the heading level used for titles of new items.
const TitleLevel = 2

// Attrs are free-form node or mark attributes. Numbers decoded from JSON
// are kept as json.Number so they re-encode exactly.
type Attrs map[string]any

// Mark is an inline annotation on a text node.
type Mark struct {
	Type  string
	Attrs Attrs

	extra map[string]json.RawMessage
}

// Node is one element of the document tree.
//
// A nil Attrs, Content or Marks is left out of the JSON form while an empty
// non-nil one is written, so `{}` and `[]` read from an editor survive a
// round trip. Keys this package does not model are kept verbatim.
type Node struct {
	Type    string
	Attrs   Attrs
	Content []Node
	Marks   []Mark
	Text    string

	hasText bool
	extra   map[string]json.RawMessage
}

// Document is the root node of a tree, normally of type "doc".
type Document = Node

// MarshalJSON writes type, attrs, content, marks and text in that order,
// then any unmodelled keys. Text is written when set or when it was present
// in the decoded input, so an empty title keeps its "text" key.
func (n Node) MarshalJSON() ([]byte, error) {
	var o object
	if _, kept := n.extra["type"]; !kept {
		if err := o.value("type", n.Type); err != nil {
			return nil, err
		}
	}
	if n.Attrs != nil {
		if err := o.value("attrs", n.Attrs); err != nil {
			return nil, err
		}
	}
	if n.Content != nil {
		if err := o.value("content", n.Content); err != nil {
			return nil, err
		}
	}
	if n.Marks != nil {
		if err := o.value("marks", n.Marks); err != nil {
			return nil, err
		}
	}
	if n.hasText || n.Text != "" {
		if err := o.value("text", n.Text); err != nil {
			return nil, err
		}
	}
	o.extras(n.extra)
	return o.bytes(), nil
}

// UnmarshalJSON decodes a node, keeping unmodelled keys and explicit nulls
// as they were.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*n = Node{}
	for k, v := range raw {
		if isNull(v) {
			n.keep(k, v)
			continue
		}
		var err error
		switch k {
		case "type":
			err = json.Unmarshal(v, &n.Type)
		case "attrs":
			n.Attrs, err = decodeAttrs(v)
		case "content":
			err = json.Unmarshal(v, &n.Content)
		case "marks":
			err = json.Unmarshal(v, &n.Marks)
		case "text":
			err = json.Unmarshal(v, &n.Text)
			n.hasText = true
		default:
			n.keep(k, v)
		}
		if err != nil {
			return fmt.Errorf("node %s: %w", k, err)
		}
	}
	return nil
}

func (n *Node) keep(k string, v json.RawMessage) {
	if n.extra == nil {
		n.extra = make(map[string]json.RawMessage)
	}
	n.extra[k] = v
}

// MarshalJSON writes type, attrs, then any unmodelled keys.
func (m Mark) MarshalJSON() ([]byte, error) {
	var o object
	if _, kept := m.extra["type"]; !kept {
		if err := o.value("type", m.Type); err != nil {
			return nil, err
		}
	}
	if m.Attrs != nil {
		if err := o.value("attrs", m.Attrs); err != nil {
			return nil, err
		}
	}
	o.extras(m.extra)
	return o.bytes(), nil
}

// UnmarshalJSON decodes a mark, keeping unmodelled keys.
func (m *Mark) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = Mark{}
	for k, v := range raw {
		if isNull(v) {
			m.keep(k, v)
			continue
		}
		var err error
		switch k {
		case "type":
			err = json.Unmarshal(v, &m.Type)
		case "attrs":
			m.Attrs, err = decodeAttrs(v)
		default:
			m.keep(k, v)
		}
		if err != nil {
			return fmt.Errorf("mark %s: %w", k, err)
		}
	}
	return nil
}

func (m *Mark) keep(k string, v json.RawMessage) {
	if m.extra == nil {
		m.extra = make(map[string]json.RawMessage)
	}
	m.extra[k] = v
}

func decodeAttrs(v json.RawMessage) (Attrs, error) {
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var a Attrs
	if err := dec.Decode(&a); err != nil {
		return nil, err
	}
	return a, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// object builds a JSON object with keys in insertion order.
type object struct {
	buf bytes.Buffer
}

func (o *object) field(key string, raw []byte) {
	if o.buf.Len() > 0 {
		o.buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	o.buf.Write(k)
	o.buf.WriteByte(':')
	o.buf.Write(raw)
}

func (o *object) value(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	o.field(key, b)
	return nil
}

// extras appends m sorted by key.
func (o *object) extras(m map[string]json.RawMessage) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.field(k, m[k])
	}
}

func (o *object) bytes() []byte {
	out := make([]byte, 0, o.buf.Len()+2)
	out = append(out, '{')
	out = append(out, o.buf.Bytes()...)
	return append(out, '}')
}

// Heading builds a document holding a single title heading whose text is text.
func Heading(text string) Document {
	return Document{
		Type: TypeDoc,
		Content: []Node{{
			Type:    TypeHeading,
			Attrs:   Attrs{"level": TitleLevel},
			Content: []Node{Text(text)},
		}},
	}
}

// Paragraph builds a paragraph node from inline children.
func Paragraph(inline ...Node) Node {
	return Node{Type: TypeParagraph, Content: inline}
}

// Text builds a text node with optional marks.
func Text(s string, marks ...string) Node {
	n := Node{Type: TypeText, Text: s, hasText: true}
	for _, m := range marks {
		n.Marks = append(n.Marks, Mark{Type: m})
	}
	return n
}

// Callout builds a callout block of the given kind ("info", "warning", ...).
func Callout(kind, emoji string, blocks ...Node) Node {
	return Node{Type: TypeCallout, Attrs: Attrs{"type": kind, "emoji": emoji}, Content: blocks}
}

// Level returns the heading level of n, or 0 when n carries none.
func (n Node) Level() int {
	lvl, _ := n.IntAttr("level")
	return lvl
}

// IntAttr returns the integer attribute key. Values built in Go arrive as
// int, values decoded from JSON as json.Number.
func (n Node) IntAttr(key string) (int, bool) {
	switch v := n.Attrs[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	}
	return 0, false
}

// Attr returns the string attribute key, or "".
func (n Node) Attr(key string) string {
	s, _ := n.Attrs[key].(string)
	return s
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := Node{
		Type:    n.Type,
		Text:    n.Text,
		Attrs:   cloneAttrs(n.Attrs),
		hasText: n.hasText,
		extra:   cloneRaw(n.extra),
	}
	if n.Content != nil {
		out.Content = make([]Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = c.Clone()
		}
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			out.Marks[i] = Mark{Type: m.Type, Attrs: cloneAttrs(m.Attrs), extra: cloneRaw(m.extra)}
		}
	}
	return out
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = bytes.Clone(v)
	}
	return out
}

func cloneAttrs(a Attrs) Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case Attrs:
		return cloneAttrs(t)
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	}
	return v
}

// Parse decodes a document from its JSON form.
func Parse(b []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return Document{}, err
	}
	if d.Type == "" {
		return Document{}, errors.New("document has no root type")
	}
	return d, nil
}
