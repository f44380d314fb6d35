// Package dast defines the structured document tree consumed by the
// analysis engine: elements, text, macros, and the inert node kinds the
// parser keeps for completeness. Trees are treated as read-only once built.
package dast

// NodeKind classifies the type of a document node.
type NodeKind uint8

// Node kinds.
const (
	NodeRoot NodeKind = iota
	NodeElement
	NodeText
	NodeMacro
	NodeFunctionMacro

	// Inert nodes. They carry a range but take no part in scoping.
	NodeComment
	NodeDoctype
	NodeInstruction
	NodeCdata
	NodeError
)

var nodeKindNames = [...]string{
	NodeRoot:          "root",
	NodeElement:       "element",
	NodeText:          "text",
	NodeMacro:         "macro",
	NodeFunctionMacro: "functionMacro",
	NodeComment:       "comment",
	NodeDoctype:       "doctype",
	NodeInstruction:   "instruction",
	NodeCdata:         "cdata",
	NodeError:         "error",
}

// String returns the lower-camel name of the kind.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// Node is a single node of the document tree.
//
// Which fields are meaningful depends on Kind:
//   - NodeRoot: Children.
//   - NodeElement: Name, Attributes, Children.
//   - NodeText, NodeComment, NodeDoctype, NodeInstruction, NodeCdata,
//     NodeError: Value.
//   - NodeMacro, NodeFunctionMacro: Macro.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Name is the element name exactly as written in the source.
	Name string

	// Attributes holds element attributes in source order.
	Attributes []*Attribute

	// Children holds the ordered child nodes.
	Children []*Node

	// Value is the literal content of text-like nodes.
	Value string

	// Macro holds reference data for macro nodes.
	Macro *MacroAttrs

	// Position is the source range. Nil for synthetic nodes.
	Position *Position
}

// Attribute is a single element attribute. Its value is a list of text and
// macro nodes so that references inside attribute values stay resolvable.
type Attribute struct {
	Name     string
	Children []*Node
	Position *Position
}

// NewRoot creates a root node with the given children.
func NewRoot(children ...*Node) *Node {
	return &Node{Kind: NodeRoot, Children: children}
}

// NewElement creates an element node.
func NewElement(name string, attrs []*Attribute, children ...*Node) *Node {
	return &Node{Kind: NodeElement, Name: name, Attributes: attrs, Children: children}
}

// NewText creates a text node.
func NewText(value string) *Node {
	return &Node{Kind: NodeText, Value: value}
}

// IsElement reports whether n is a non-nil element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == NodeElement
}

// IsRoot reports whether n is a non-nil root node.
func (n *Node) IsRoot() bool {
	return n != nil && n.Kind == NodeRoot
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Attribute returns the attribute with the given name. The lookup is
// case-sensitive; callers wanting schema-normalized names normalize first.
func (n *Node) Attribute(name string) (*Attribute, bool) {
	for _, attr := range n.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return nil, false
}

// NameAttribute returns the literal value of the element's "name"
// attribute. Values containing macros are not literal and report false.
func (n *Node) NameAttribute() (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	attr, ok := n.Attribute("name")
	if !ok {
		return "", false
	}
	return attr.Literal()
}

// Literal returns the attribute value when it consists solely of text.
func (a *Attribute) Literal() (string, bool) {
	var value string
	for _, child := range a.Children {
		if child.Kind != NodeText {
			return "", false
		}
		value += child.Value
	}
	return value, true
}

// Start returns the start offset of the node, or -1 if it has no position.
func (n *Node) Start() int {
	if n == nil || n.Position == nil {
		return -1
	}
	return n.Position.Start.Offset
}

// End returns the end offset of the node, or -1 if it has no position.
func (n *Node) End() int {
	if n == nil || n.Position == nil {
		return -1
	}
	return n.Position.End.Offset
}
