package source

import "github.com/yaklabco/mlsense/pkg/dast"

// Side selects which node wins when an offset sits on a boundary between
// two nodes.
type Side uint8

const (
	// SideRight prefers the node starting at the offset.
	SideRight Side = iota

	// SideLeft prefers the node ending at the offset.
	SideLeft
)

// Query narrows NodeAtOffset.
type Query struct {
	// Kind, when not NodeRoot, walks up from the deepest node to the first
	// node of this kind. The zero value applies no filter.
	Kind dast.NodeKind

	// Side picks the boundary bias. The zero value is SideRight.
	Side Side
}

// NodeAtOffset returns the deepest node at offset, or nil when offset lies
// outside [0, len(source)] or no node of the requested kind encloses it.
func (o *Object) NodeAtOffset(offset int, q Query) *dast.Node {
	n := len(o.source)
	if offset < 0 || offset > n {
		return nil
	}
	if n == 0 {
		if q.Kind != dast.NodeRoot {
			return nil
		}
		return o.Root()
	}

	side := q.Side
	if offset == n && side == SideLeft {
		offset, side = n-1, SideRight
	}
	if offset == n {
		return nil
	}

	maps := o.offsets.Get()
	node := maps.right[offset]
	if side == SideLeft {
		node = maps.left[offset]
	}

	if q.Kind == dast.NodeRoot {
		return node
	}

	parents := o.parents.Get()
	for cur := node; cur != nil && !cur.IsRoot(); cur = parents[cur] {
		if cur.Kind == q.Kind {
			return cur
		}
	}
	return nil
}

// ElementAtOffset returns the innermost element at offset.
func (o *Object) ElementAtOffset(offset int) *dast.Node {
	return o.NodeAtOffset(offset, Query{Kind: dast.NodeElement})
}

// Parent returns the element or root containing node, or nil for the root
// and for nodes not in the current tree.
func (o *Object) Parent(node *dast.Node) *dast.Node {
	if node == nil {
		return nil
	}
	return o.parents.Get()[node]
}

// ParentElement returns the nearest enclosing element of node, skipping the
// root.
func (o *Object) ParentElement(node *dast.Node) *dast.Node {
	parent := o.Parent(node)
	if !parent.IsElement() {
		return nil
	}
	return parent
}

// AttributeAtOffset returns the attribute of el whose range contains offset,
// its end included.
func (o *Object) AttributeAtOffset(el *dast.Node, offset int) *dast.Attribute {
	if !el.IsElement() {
		return nil
	}
	for _, attr := range el.Attributes {
		if attr.Position != nil && attr.Position.ContainsInclusive(offset) {
			return attr
		}
	}
	return nil
}
