package dast

import "strings"

// MacroAttrs holds the reference data of NodeMacro and NodeFunctionMacro.
//
// `$a.b[2].c` is stored as Path [a] with AccessedProp pointing at a macro
// with Path [b[2]], whose AccessedProp in turn has Path [c].
type MacroAttrs struct {
	// Path is the reference path. It always has at least one part.
	Path []PathPart

	// AccessedProp is the chained `.prop` sub-macro, or nil.
	AccessedProp *Node

	// Input holds the arguments of a function macro, one node list per
	// argument. Nil for plain macros.
	Input [][]*Node
}

// PathPart is one segment of a macro path.
type PathPart struct {
	Name  string
	Index []Index
}

// Index is a bracketed index on a path part. Its value is kept as nodes so
// that `[$n]` stays a reference.
type Index struct {
	Value []*Node
}

// IsIndexed reports whether the part carries any index.
func (p PathPart) IsIndexed() bool {
	return len(p.Index) > 0
}

// String renders the part back to source form.
func (p PathPart) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	for _, idx := range p.Index {
		b.WriteByte('[')
		for _, n := range idx.Value {
			b.WriteString(n.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Chain flattens a macro into the ordered list of path parts it addresses:
// its own path followed by every accessed property.
func (m *MacroAttrs) Chain() []PathPart {
	var parts []PathPart
	for cur := m; cur != nil; {
		parts = append(parts, cur.Path...)
		if cur.AccessedProp == nil {
			break
		}
		cur = cur.AccessedProp.Macro
	}
	return parts
}

// String renders a node back to an approximate source form. It is meant for
// messages and tests, not for round-tripping documents.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case NodeText:
		return n.Value
	case NodeMacro, NodeFunctionMacro:
		return n.macroString()
	case NodeElement:
		return "<" + n.Name + ">"
	default:
		return n.Value
	}
}

func (n *Node) macroString() string {
	if n.Macro == nil {
		return ""
	}
	var b strings.Builder
	b.WriteByte('$')
	if n.Kind == NodeFunctionMacro {
		b.WriteByte('$')
	}
	parts := make([]string, 0, len(n.Macro.Path))
	for _, part := range n.Macro.Path {
		parts = append(parts, part.String())
	}
	b.WriteString(strings.Join(parts, "/"))
	if n.Kind == NodeFunctionMacro {
		args := make([]string, 0, len(n.Macro.Input))
		for _, arg := range n.Macro.Input {
			var ab strings.Builder
			for _, a := range arg {
				ab.WriteString(a.String())
			}
			args = append(args, ab.String())
		}
		b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	if n.Macro.AccessedProp != nil {
		b.WriteByte('.')
		b.WriteString(strings.TrimPrefix(n.Macro.AccessedProp.String(), "$"))
	}
	return b.String()
}
