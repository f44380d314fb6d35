// Package syntax provides a lossless, error-tolerant concrete syntax tree for
// the markup language. Every byte of the source belongs to some node, and
// incomplete constructs (a tag missing its '>', an element never closed, a
// bare '<') are represented rather than rejected.
package syntax

import "strings"

// Node is a node of the concrete syntax tree covering [Start, End).
type Node struct {
	Kind     Kind
	Start    int
	End      int
	Parent   *Node
	Children []*Node
}

// Tree is a parsed source.
type Tree struct {
	// Source is the text the tree was built from.
	Source string

	// Root is the Document node spanning the whole source.
	Root *Node
}

func (n *Node) add(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// Child returns the first direct child of the given kind, or nil.
func (n *Node) Child(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Ancestor returns the nearest node, starting at n itself, whose kind is one
// of kinds.
func (n *Node) Ancestor(kinds ...Kind) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		for _, k := range kinds {
			if cur.Kind == k {
				return cur
			}
		}
	}
	return nil
}

// Text returns the source text covered by the node.
func (n *Node) Text(src string) string {
	if n == nil || n.Start < 0 || n.End > len(src) || n.Start > n.End {
		return ""
	}
	return src[n.Start:n.End]
}

// Len returns the length of the node in bytes.
func (n *Node) Len() int {
	return n.End - n.Start
}

// Tag returns the open or self-closing tag of an Element node.
func (n *Node) Tag() *Node {
	if n == nil || n.Kind != KindElement {
		return nil
	}
	if tag := n.Child(KindOpenTag); tag != nil {
		return tag
	}
	return n.Child(KindSelfClosingTag)
}

// CloseTag returns the matching close tag of an Element node, or nil.
func (n *Node) CloseTag() *Node {
	if n == nil || n.Kind != KindElement {
		return nil
	}
	return n.Child(KindCloseTag)
}

// TagComplete reports whether the element's own tag is terminated by '>'
// or '/>'.
func (n *Node) TagComplete() bool {
	tag := n.Tag()
	if tag == nil {
		return false
	}
	return tag.Child(KindEndTag) != nil || tag.Child(KindSelfCloseEndTag) != nil
}

// Closed reports whether the element is self-closing or has a matching
// close tag.
func (n *Node) Closed() bool {
	tag := n.Tag()
	if tag == nil {
		return false
	}
	if tag.Kind == KindSelfClosingTag {
		return true
	}
	return n.CloseTag() != nil
}

// ElementName returns the tag name of an Element node.
func (n *Node) ElementName(src string) string {
	return n.Tag().Child(KindTagName).Text(src)
}

// ResolveInner returns the innermost node touching pos.
//
// With side < 0 a node must satisfy start < pos <= end (it ends at or covers
// pos from the left); with side > 0, start <= pos < end; with side == 0,
// start < pos < end. The Document node is returned when nothing deeper
// qualifies. Positions outside [0, len(Source)] return nil.
func (t *Tree) ResolveInner(pos, side int) *Node {
	if t == nil || t.Root == nil || pos < 0 || pos > len(t.Source) {
		return nil
	}

	node := t.Root
	for {
		next := childAt(node, pos, side)
		if next == nil {
			return node
		}
		node = next
	}
}

func childAt(node *Node, pos, side int) *Node {
	for _, c := range node.Children {
		switch {
		case side < 0:
			if c.Start < pos && pos <= c.End {
				return c
			}
		case side > 0:
			if c.Start <= pos && pos < c.End {
				return c
			}
		default:
			if c.Start < pos && pos < c.End {
				return c
			}
		}
	}
	return nil
}

// ElementAt returns the Element node starting exactly at offset, or nil.
func (t *Tree) ElementAt(offset int) *Node {
	if t == nil || t.Root == nil {
		return nil
	}

	node := t.Root
	for {
		next := childAt(node, offset, 1)
		if next == nil {
			return nil
		}
		if next.Kind == KindElement && next.Start == offset {
			return next
		}
		node = next
	}
}

// String renders the tree structure in a compact form, e.g.
// Document(Element(OpenTag(StartTag,TagName,EndTag),CloseTag(...))).
func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return ""
	}
	var b strings.Builder
	writeNode(&b, t.Root)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	b.WriteString(n.Kind.String())
	if len(n.Children) == 0 {
		return
	}
	b.WriteByte('(')
	for i, c := range n.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		writeNode(b, c)
	}
	b.WriteByte(')')
}
