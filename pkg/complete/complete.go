// Package complete computes completion candidates for a cursor position in a
// markup document, combining the cursor's structural context with a schema.
package complete

import (
	"strings"

	"github.com/charmbracelet/log"
	"go.lsp.dev/protocol"

	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/schema"
	"github.com/yaklabco/mlsense/pkg/source"
	"github.com/yaklabco/mlsense/pkg/syntax"
)

// Completer produces completion items for one document.
type Completer struct {
	obj    *source.Object
	schema *schema.Schema
	docs   DocFormat
	logger *log.Logger
}

// Option configures a Completer.
type Option func(*Completer)

// WithDocFormat selects how schema descriptions are attached to items.
func WithDocFormat(format DocFormat) Option {
	return func(c *Completer) {
		c.docs = format
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Completer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Completer over obj using s.
func New(obj *source.Object, s *schema.Schema, opts ...Option) *Completer {
	c := &Completer{
		obj:    obj,
		schema: s,
		docs:   DocMarkdown,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSchema replaces the schema. The document is not reparsed.
func (c *Completer) SetSchema(s *schema.Schema) {
	c.schema = s
}

// Schema returns the current schema.
func (c *Completer) Schema() *schema.Schema {
	return c.schema
}

// cursor is the raw-text view around the completion offset.
type cursor struct {
	offset      int
	prev        byte // 0 at start of input
	prevPrev    byte
	next        byte // 0 at end of input
	prevNonWS   byte
	prevNonWSAt int
}

func newCursor(src string, offset int) cursor {
	cur := cursor{offset: offset, prevNonWSAt: -1}
	if offset > 0 {
		cur.prev = src[offset-1]
	}
	if offset > 1 {
		cur.prevPrev = src[offset-2]
	}
	if offset < len(src) {
		cur.next = src[offset]
	}
	for i := offset - 1; i >= 0; i-- {
		if !isSpace(src[i]) {
			cur.prevNonWS = src[i]
			cur.prevNonWSAt = i
			break
		}
	}
	return cur
}

// Items returns the completion candidates at offset. Offsets outside the
// document yield no items.
func (c *Completer) Items(offset int) []protocol.CompletionItem {
	src := c.obj.Source()
	if offset < 0 || offset > len(src) {
		return nil
	}

	cur := newCursor(src, offset)
	el, pos := c.obj.ElementAtOffsetWithContext(offset)
	c.logger.Debug("completion context", "offset", offset, "element", elementName(el), "position", pos)

	switch {
	case el == nil && cur.prev == '<':
		return c.elementItems(c.schema.TopLevel(), "")

	case el != nil && pos == source.CursorBody && cur.prev == '<':
		return c.bodyItems(el)

	case cur.prevPrev == '<' && cur.prev == '/':
		if cur.next == 0 || isSpace(cur.next) || pos == source.CursorBody {
			return c.closeTagItems(el)
		}
		return nil

	case isReference(src, offset):
		return c.referenceItems(offset)

	case el != nil && pos == source.CursorOpenTagName:
		return c.openTagNameItems(el, offset)

	case el != nil && (pos == source.CursorAttributeValue ||
		(cur.prevNonWS == '=' && (pos == source.CursorOpenTag || pos == source.CursorUnknown || pos == source.CursorAttributeName))):
		return c.attributeValueItems(el, cur)

	case el != nil && (pos == source.CursorOpenTag || pos == source.CursorAttributeName):
		return c.attributeItems(el)

	default:
		return nil
	}
}

// bodyItems offers the children allowed in el, preceded by el's own close
// tag when it is still open.
func (c *Completer) bodyItems(el *dast.Node) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	if done, err := c.obj.IsCompleteElement(el); err == nil && !done.Closed {
		items = append(items, closeTagItem("/"+el.Name+">"))
	}
	return append(items, c.elementItems(c.schema.Children(el.Name), "")...)
}

// closeTagItems offers the close tag of the nearest enclosing element that
// is still open.
func (c *Completer) closeTagItems(el *dast.Node) []protocol.CompletionItem {
	for cur := el; cur != nil; cur = c.obj.ParentElement(cur) {
		done, err := c.obj.IsCompleteElement(cur)
		if err != nil {
			return nil
		}
		if !done.Closed {
			return []protocol.CompletionItem{closeTagItem(cur.Name + ">")}
		}
	}
	return nil
}

func (c *Completer) openTagNameItems(el *dast.Node, offset int) []protocol.CompletionItem {
	var candidates []string
	if parent := c.obj.Parent(el); parent == nil || parent.IsRoot() {
		candidates = c.schema.TopLevel()
	} else {
		candidates = c.schema.Children(parent.Name)
	}

	// Only the part of the name left of the cursor filters.
	prefix := el.Name
	if nameStart := el.Start() + 1; offset >= nameStart && offset-nameStart < len(prefix) {
		prefix = prefix[:offset-nameStart]
	}

	return c.elementItems(candidates, prefix)
}

func (c *Completer) attributeItems(el *dast.Node) []protocol.CompletionItem {
	attrs := c.schema.Attributes(el.Name)
	items := make([]protocol.CompletionItem, 0, len(attrs))
	for _, attr := range attrs {
		items = append(items, protocol.CompletionItem{
			Label:         attr.Name,
			Kind:          protocol.CompletionItemKindProperty,
			Documentation: c.documentation(attr.Description),
		})
	}
	return items
}

func (c *Completer) attributeValueItems(el *dast.Node, cur cursor) []protocol.CompletionItem {
	attr := c.obj.AttributeAtOffset(el, cur.offset)
	if attr == nil && cur.prevNonWS == '=' {
		attr = c.obj.AttributeAtOffset(el, cur.prevNonWSAt+1)
	}
	if attr == nil {
		return nil
	}

	quote := cur.prev == '='
	values, ok := c.schema.AttributeValues(el.Name, attr.Name)
	if !ok {
		return []protocol.CompletionItem{valueItem("", quote)}
	}

	items := make([]protocol.CompletionItem, 0, len(values))
	for _, v := range values {
		items = append(items, valueItem(v, quote))
	}
	return items
}

func (c *Completer) elementItems(names []string, prefix string) []protocol.CompletionItem {
	lowerPrefix := strings.ToLower(prefix)
	items := make([]protocol.CompletionItem, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(strings.ToLower(name), lowerPrefix) {
			continue
		}
		item := protocol.CompletionItem{
			Label: name,
			Kind:  protocol.CompletionItemKindClass,
		}
		if el, ok := c.schema.Element(name); ok {
			item.Documentation = c.documentation(el.Description)
		}
		items = append(items, item)
	}
	return items
}

func closeTagItem(label string) protocol.CompletionItem {
	return protocol.CompletionItem{
		Label: label,
		Kind:  protocol.CompletionItemKindClass,
	}
}

func valueItem(value string, quote bool) protocol.CompletionItem {
	label := value
	if quote {
		label = `"` + value + `"`
	}
	return protocol.CompletionItem{
		Label: label,
		Kind:  protocol.CompletionItemKindValue,
	}
}

func elementName(el *dast.Node) string {
	if el == nil {
		return ""
	}
	return el.Name
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isReference(src string, offset int) bool {
	_, ok := referencePrefix(src, offset)
	return ok
}

// referencePrefix returns the macro path being typed just left of offset,
// without its '$', and whether there is one.
func referencePrefix(src string, offset int) (string, bool) {
	i := offset
	for i > 0 && (syntax.IsWordChar(src[i-1]) || src[i-1] == '.') {
		i--
	}
	if i == 0 || src[i-1] != '$' {
		return "", false
	}
	if i < offset && src[i] == '.' {
		return "", false
	}
	return src[i:offset], true
}
