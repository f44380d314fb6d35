package source

import (
	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/syntax"
)

// CursorPosition classifies where inside an element a cursor falls.
type CursorPosition uint8

// Cursor positions.
const (
	CursorUnknown CursorPosition = iota
	CursorBody
	CursorOpenTagName
	CursorCloseTagName
	CursorOpenTag
	CursorAttributeName
	CursorAttributeValue
)

var cursorNames = [...]string{
	CursorUnknown:        "unknown",
	CursorBody:           "body",
	CursorOpenTagName:    "openTagName",
	CursorCloseTagName:   "closeTagName",
	CursorOpenTag:        "openTag",
	CursorAttributeName:  "attributeName",
	CursorAttributeValue: "attributeValue",
}

func (c CursorPosition) String() string {
	if int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return "unknown"
}

// ElementAtOffsetWithContext returns the element a cursor at offset belongs
// to and where inside it the cursor is. It tolerates incomplete input:
//   - a name still being typed (`<li` with no `>`) resolves by stepping left
//     over word characters and '<';
//   - a bare '<' (empty element name) counts as its container's body;
//   - whitespace before a close tag, or end of input, after an element that
//     was never closed belongs to that element's body.
func (o *Object) ElementAtOffsetWithContext(offset int) (*dast.Node, CursorPosition) {
	src := o.source
	if offset < 0 || offset > len(src) {
		return nil, CursorUnknown
	}

	for first := true; ; first = false {
		el := o.ElementAtOffset(offset)

		if el == nil {
			if offset > 0 && (syntax.IsWordChar(src[offset-1]) || src[offset-1] == '<') {
				offset--
				continue
			}
			if first && offset == len(src) {
				return o.trailingElement(offset)
			}
			return nil, CursorUnknown
		}

		// A bare '<' is not an element yet; the cursor belongs to whatever
		// contains it.
		if el.Name == "" {
			return o.parentBody(el)
		}

		exact := o.NodeAtOffset(offset, Query{})
		if exact != el {
			return el, CursorBody
		}
		return o.classifyTag(el, offset)
	}
}

// trailingElement handles a cursor at end of input outside any element span.
// The nearest element that ends here and was never closed claims it.
func (o *Object) trailingElement(offset int) (*dast.Node, CursorPosition) {
	el := o.NodeAtOffset(offset, Query{Kind: dast.NodeElement, Side: SideLeft})
	for el != nil {
		cst := o.syntaxElement(el)
		if cst != nil && !cst.Closed() && el.Name != "" {
			return o.trailingContext(el, cst, offset)
		}
		el = o.ParentElement(el)
	}
	return nil, CursorUnknown
}

// trailingContext classifies a cursor at the end of an element that was
// never closed. If its open tag is still unterminated and ends at the
// cursor, the cursor is inside that tag; otherwise it is in the body.
func (o *Object) trailingContext(el *dast.Node, cst *syntax.Node, offset int) (*dast.Node, CursorPosition) {
	tag := cst.Tag()
	if tag == nil || cst.TagComplete() || tag.End != offset {
		return el, CursorBody
	}

	left := o.Syntax().ResolveInner(offset, -1)
	if left == nil || left.Ancestor(syntax.KindOpenTag, syntax.KindSelfClosingTag) != tag {
		return el, CursorOpenTag
	}

	switch left.Kind {
	case syntax.KindTagName:
		return el, CursorOpenTagName
	case syntax.KindAttributeName:
		return el, CursorAttributeName
	case syntax.KindAttributeValue:
		return el, CursorAttributeValue
	default:
		return el, CursorOpenTag
	}
}

// classifyTag handles a cursor that resolves to el itself rather than one of
// its children, so it sits in a tag or between tags. The syntax tree on both
// sides of offset decides.
func (o *Object) classifyTag(el *dast.Node, offset int) (*dast.Node, CursorPosition) {
	cst := o.syntaxElement(el)
	if cst == nil {
		return el, CursorUnknown
	}

	tree := o.Syntax()
	left := tree.ResolveInner(offset, -1)
	right := tree.ResolveInner(offset, 1)

	// An unclosed child ending here (its parent's close tag follows)
	// keeps the cursor.
	if left != nil {
		inner := left.Ancestor(syntax.KindElement)
		if inner != nil && inner != cst && inner.End == offset && !inner.Closed() {
			if innerEl := o.dastElement(inner); innerEl != nil && innerEl.Name != "" {
				return o.trailingContext(innerEl, inner, offset)
			}
		}
	}

	node := right
	if (offset > 0 && syntax.IsWordChar(o.source[offset-1])) || uninformative(right) {
		node = left
	}
	if uninformative(node) {
		return el, CursorBody
	}

	owner := node.Ancestor(syntax.KindElement)
	if owner != cst {
		ownerEl := o.dastElement(owner)
		if ownerEl == nil || ownerEl.Name == "" {
			return el, CursorBody
		}
		el, cst = ownerEl, owner
	}

	switch node.Kind {
	case syntax.KindTagName:
		if node.Parent.Kind == syntax.KindOpenTag || node.Parent.Kind == syntax.KindSelfClosingTag {
			return el, CursorOpenTagName
		}
		return el, CursorCloseTagName

	case syntax.KindAttributeName:
		return el, CursorAttributeName

	case syntax.KindAttributeValue:
		return el, CursorAttributeValue

	case syntax.KindAttribute, syntax.KindIs:
		return el, CursorOpenTag

	case syntax.KindStartCloseTag, syntax.KindCloseTag, syntax.KindMismatchedCloseTag:
		return o.closeTagContext(el, node, offset)

	case syntax.KindStartTag, syntax.KindEndTag, syntax.KindSelfCloseEndTag,
		syntax.KindOpenTag, syntax.KindSelfClosingTag:
		if node.Kind == syntax.KindEndTag && node.Parent.Kind == syntax.KindCloseTag {
			return o.closeTagContext(el, node, offset)
		}
		return o.openTagContext(el, cst, offset)

	default:
		return el, CursorBody
	}
}

func (o *Object) openTagContext(el *dast.Node, cst *syntax.Node, offset int) (*dast.Node, CursorPosition) {
	tag := cst.Tag()
	switch {
	case tag == nil:
		return el, CursorUnknown
	case offset <= tag.Start:
		// Before the '<': the cursor is in whatever contains the element.
		return o.parentBody(el)
	case offset >= tag.End && cst.TagComplete():
		if tag.Kind == syntax.KindSelfClosingTag {
			return o.parentBody(el)
		}
		return el, CursorBody
	default:
		return el, CursorOpenTag
	}
}

func (o *Object) closeTagContext(el *dast.Node, node *syntax.Node, offset int) (*dast.Node, CursorPosition) {
	closeTag := node.Ancestor(syntax.KindCloseTag, syntax.KindMismatchedCloseTag)
	if closeTag == nil || offset <= closeTag.Start {
		return el, CursorBody
	}
	if offset >= closeTag.End && closeTag.Child(syntax.KindEndTag) != nil {
		return o.parentBody(el)
	}
	return el, CursorCloseTagName
}

func (o *Object) parentBody(el *dast.Node) (*dast.Node, CursorPosition) {
	parent := o.ParentElement(el)
	if parent == nil {
		return nil, CursorUnknown
	}
	return parent, CursorBody
}

func uninformative(n *syntax.Node) bool {
	return n == nil || n.Kind == syntax.KindDocument || n.Kind == syntax.KindElement
}

// syntaxElement returns the syntax element backing a document element.
func (o *Object) syntaxElement(el *dast.Node) *syntax.Node {
	if !el.IsElement() {
		return nil
	}
	return o.Syntax().ElementAt(el.Start())
}

// dastElement returns the document element built from a syntax element.
func (o *Object) dastElement(n *syntax.Node) *dast.Node {
	if n == nil || n.Kind != syntax.KindElement {
		return nil
	}
	el := o.ElementAtOffset(n.Start)
	if el == nil || el.Start() != n.Start {
		return nil
	}
	return el
}
