package dast

import "iter"

// WalkFunc is called for each node visited by Walk. A non-nil error
// stops the walk and is returned from Walk.
type WalkFunc func(n *Node) error

// Walk visits root and its descendants in pre-order. Attribute values are
// not part of the walk.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}
	if err := walkFunc(root); err != nil {
		return err
	}
	for _, child := range root.Children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// WalkContextFunc receives a node together with its parent; the parent of
// the starting node is nil.
type WalkContextFunc func(n, parent *Node) error

// WalkWithContext calls enter before a node's children are visited and
// leave afterwards. Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkContextFunc) error {
	var visit func(node, parent *Node) error
	visit = func(node, parent *Node) error {
		if node == nil {
			return nil
		}
		if enter != nil {
			if err := enter(node, parent); err != nil {
				return err
			}
		}
		for _, child := range node.Children {
			if err := visit(child, node); err != nil {
				return err
			}
		}
		if leave != nil {
			return leave(node, parent)
		}
		return nil
	}
	return visit(root, nil)
}

// All yields root and its descendants in the same order as Walk.
func All(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var visit func(n *Node) bool
		visit = func(n *Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range n.Children {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		if root != nil {
			visit(root)
		}
	}
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node
	for n := range All(root) {
		if predicate(n) {
			result = append(result, n)
		}
	}
	return result
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool { return n.Kind == kind })
}

// Elements returns every element in document order.
func Elements(root *Node) []*Node {
	return FindByKind(root, NodeElement)
}
