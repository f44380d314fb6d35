package source

import (
	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/parser"
)

// offsetMaps hold, for each byte offset, the deepest node covering it.
// At a boundary between adjacent nodes the right map prefers the later node
// and the left map the earlier one. left[0] is always the root.
type offsetMaps struct {
	right []*dast.Node
	left  []*dast.Node
}

// NamedElement is an element reachable by name from some ancestor.
type NamedElement struct {
	Name    string
	Element *dast.Node
}

func (o *Object) computeParse() *parser.Result {
	o.logger.Debug("parsing source", "length", len(o.source))
	return parser.Parse(o.source)
}

func (o *Object) computeParents() map[*dast.Node]*dast.Node {
	parents := make(map[*dast.Node]*dast.Node)

	//nolint:errcheck // visitor never returns an error
	dast.WalkWithContext(o.Root(), func(n, parent *dast.Node) error {
		if parent != nil {
			parents[n] = parent
		}
		for _, attr := range n.Attributes {
			for _, child := range attr.Children {
				parents[child] = n
			}
		}
		return nil
	}, nil)

	return parents
}

// computeOffsetMaps fills both maps in one pre-order walk. Children are
// visited after their parent, so deeper nodes overwrite shallower ones.
// Attribute values are not part of the maps; an offset inside a tag maps to
// the element itself.
func (o *Object) computeOffsetMaps() *offsetMaps {
	n := len(o.source)
	maps := &offsetMaps{
		right: make([]*dast.Node, n),
		left:  make([]*dast.Node, n),
	}

	root := o.Root()

	for node := range dast.All(root) {
		start, end := node.Start(), node.End()
		if start < 0 || end < 0 {
			continue
		}
		for i := start; i < min(end, n); i++ {
			maps.right[i] = node
			if i+1 < n {
				maps.left[i+1] = node
			}
		}
	}

	if n > 0 {
		maps.left[0] = root
	}
	return maps
}

// computeAccess records every named element in the access list of each of
// its ancestors, the root included.
func (o *Object) computeAccess() map[*dast.Node][]NamedElement {
	access := make(map[*dast.Node][]NamedElement)
	var ancestors []*dast.Node

	//nolint:errcheck // visitors never return an error
	dast.WalkWithContext(o.Root(),
		func(n, _ *dast.Node) error {
			if name, ok := n.NameAttribute(); ok && name != "" {
				for _, anc := range ancestors {
					access[anc] = append(access[anc], NamedElement{Name: name, Element: n})
				}
			}
			if n.IsElement() || n.IsRoot() {
				ancestors = append(ancestors, n)
			}
			return nil
		},
		func(n, _ *dast.Node) error {
			if n.IsElement() || n.IsRoot() {
				ancestors = ancestors[:len(ancestors)-1]
			}
			return nil
		})

	return access
}
