package parser

import (
	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/position"
	"github.com/yaklabco/mlsense/pkg/syntax"
)

// mapper converts a concrete syntax tree into a dast tree.
type mapper struct {
	src string
	idx *position.Index
}

func newMapper(src string, idx *position.Index) *mapper {
	return &mapper{src: src, idx: idx}
}

func (m *mapper) mapDocument(doc *syntax.Node) *dast.Node {
	root := dast.NewRoot()
	root.Position = m.position(doc.Start, doc.End)
	root.Children = m.mapChildren(doc)
	return root
}

func (m *mapper) mapChildren(parent *syntax.Node) []*dast.Node {
	var children []*dast.Node
	for _, child := range parent.Children {
		children = append(children, m.mapNode(child)...)
	}
	return children
}

// mapNode lowers one syntax node. Text can expand into several nodes when it
// contains macros; tag parts of an element lower to nothing.
func (m *mapper) mapNode(n *syntax.Node) []*dast.Node {
	switch n.Kind {
	case syntax.KindElement:
		return []*dast.Node{m.mapElement(n)}

	case syntax.KindText:
		return m.inline(n.Start, n.End)

	case syntax.KindComment:
		return []*dast.Node{m.inert(dast.NodeComment, n, "<!--", "-->")}

	case syntax.KindCdata:
		return []*dast.Node{m.inert(dast.NodeCdata, n, "<![CDATA[", "]]>")}

	case syntax.KindProcessingInst:
		return []*dast.Node{m.inert(dast.NodeInstruction, n, "<?", "?>")}

	case syntax.KindDoctype:
		return []*dast.Node{m.inert(dast.NodeDoctype, n, "<!", ">")}

	case syntax.KindMismatchedCloseTag:
		return []*dast.Node{{
			Kind:     dast.NodeError,
			Value:    n.Text(m.src),
			Position: m.position(n.Start, n.End),
		}}

	default:
		return nil
	}
}

func (m *mapper) mapElement(n *syntax.Node) *dast.Node {
	el := dast.NewElement(n.ElementName(m.src), nil)
	el.Position = m.position(n.Start, n.End)

	if tag := n.Tag(); tag != nil {
		seen := make(map[string]bool)
		for _, child := range tag.Children {
			if child.Kind != syntax.KindAttribute {
				continue
			}
			attr := m.mapAttribute(child)
			// The first occurrence of a repeated attribute wins.
			if seen[attr.Name] {
				continue
			}
			seen[attr.Name] = true
			el.Attributes = append(el.Attributes, attr)
		}
	}

	el.Children = m.mapChildren(n)
	return el
}

func (m *mapper) mapAttribute(n *syntax.Node) *dast.Attribute {
	attr := &dast.Attribute{
		Name:     n.Child(syntax.KindAttributeName).Text(m.src),
		Position: m.position(n.Start, n.End),
	}

	value := n.Child(syntax.KindAttributeValue)
	if value == nil {
		return attr
	}

	start, end := value.Start, value.End
	if end > start && (m.src[start] == '"' || m.src[start] == '\'') {
		quote := m.src[start]
		start++
		if end > start && m.src[end-1] == quote {
			end--
		}
	}
	attr.Children = m.inline(start, end)
	return attr
}

func (m *mapper) inert(kind dast.NodeKind, n *syntax.Node, open, closer string) *dast.Node {
	start, end := n.Start+len(open), n.End
	if end-len(closer) >= start && m.src[end-len(closer):end] == closer {
		end -= len(closer)
	}
	if start > end {
		start = end
	}
	return &dast.Node{
		Kind:     kind,
		Value:    m.src[start:end],
		Position: m.position(n.Start, n.End),
	}
}

func (m *mapper) point(offset int) dast.Point {
	pos, _ := m.idx.OffsetToPosition(offset)
	return dast.Point{Line: pos.Line, Column: pos.Column, Offset: offset}
}

func (m *mapper) position(start, end int) *dast.Position {
	return &dast.Position{Start: m.point(start), End: m.point(end)}
}
