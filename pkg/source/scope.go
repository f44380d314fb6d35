package source

import (
	"fmt"

	"github.com/yaklabco/mlsense/pkg/dast"
)

// Names flood upward: an element's name is visible from every one of its
// ancestors, so a reference resolves against the named descendants of the
// nearest enclosing element that has exactly one match.

// Access returns the named descendants visible from el (an element or the
// root) in document order. Do not mutate the returned slice.
func (o *Object) Access(el *dast.Node) []NamedElement {
	return o.access.Get()[el]
}

// NamedDescendant returns the unique descendant of el named name. When no
// descendant or more than one carries the name, it returns nil.
func (o *Object) NamedDescendant(el *dast.Node, name string) *dast.Node {
	var found *dast.Node
	for _, ne := range o.Access(el) {
		if ne.Name != name {
			continue
		}
		if found != nil {
			return nil
		}
		found = ne.Element
	}
	return found
}

// ReferentAtOffset resolves name from the innermost element at offset
// outward. Each enclosing element is tried in turn, and the root last.
func (o *Object) ReferentAtOffset(offset int, name string) *dast.Node {
	root := o.Root()
	for cur := o.ElementAtOffset(offset); cur != nil && !cur.IsRoot(); cur = o.Parent(cur) {
		if found := o.NamedDescendant(cur, name); found != nil {
			return found
		}
	}
	return o.NamedDescendant(root, name)
}

// Referent is the outcome of resolving a macro path.
type Referent struct {
	// Node is the deepest element the path resolved to, or nil when its
	// first segment did not resolve.
	Node *dast.Node

	// Unresolved is the remainder of the path past Node.
	Unresolved []dast.PathPart
}

// Resolved reports whether the whole path resolved.
func (r Referent) Resolved() bool {
	return r.Node != nil && len(r.Unresolved) == 0
}

// MacroReferentAtOffset resolves a macro's path from offset. The first
// segment is looked up by scope; each further segment, including accessed
// properties, is looked up among the named descendants of the previous
// result. Resolution stops at the first indexed or unknown segment.
func (o *Object) MacroReferentAtOffset(offset int, macro *dast.Node) (Referent, error) {
	if macro == nil || macro.Macro == nil {
		return Referent{}, fmt.Errorf("resolve macro: %w", ErrNotMacro)
	}

	chain := macro.Macro.Chain()
	if len(chain) == 0 || len(macro.Macro.Path) == 0 {
		return Referent{}, fmt.Errorf("resolve macro: %w", ErrEmptyMacroPath)
	}

	first := chain[0]
	if first.IsIndexed() {
		return Referent{}, fmt.Errorf("resolve macro %s: %w", first, ErrIndexedFirstSegment)
	}

	node := o.ReferentAtOffset(offset, first.Name)
	if node == nil {
		return Referent{Unresolved: chain}, nil
	}

	rest := chain[1:]
	for i, part := range rest {
		if part.IsIndexed() {
			return Referent{Node: node, Unresolved: rest[i:]}, nil
		}
		next := o.NamedDescendant(node, part.Name)
		if next == nil {
			return Referent{Node: node, Unresolved: rest[i:]}, nil
		}
		node = next
	}

	return Referent{Node: node}, nil
}
