package parser

import (
	"strings"

	"github.com/yaklabco/mlsense/pkg/dast"
)

// Macro forms recognized in text and attribute values:
//
//	$name            reference
//	$name[2].prop    reference with index and accessed property
//	$(name.prop)     parenthesized reference, delimiting it from text
//	$$fn(a, $b)      function macro with arguments

// inline scans src[start:end] into text and macro nodes.
func (m *mapper) inline(start, end int) []*dast.Node {
	var nodes []*dast.Node
	textStart := start

	for i := start; i < end; {
		if m.src[i] != '$' {
			i++
			continue
		}

		macro, next, ok := m.macro(i, end)
		if !ok {
			i++
			continue
		}

		if i > textStart {
			nodes = append(nodes, m.text(textStart, i))
		}
		nodes = append(nodes, macro)
		i, textStart = next, next
	}

	if end > textStart {
		nodes = append(nodes, m.text(textStart, end))
	}
	return nodes
}

func (m *mapper) text(start, end int) *dast.Node {
	node := dast.NewText(m.src[start:end])
	node.Position = m.position(start, end)
	return node
}

// macro parses a macro starting at the '$' at i. It reports false when the
// text at i is not a well-formed macro, in which case it stays literal text.
func (m *mapper) macro(i, end int) (*dast.Node, int, bool) {
	switch {
	case i+1 < end && m.src[i+1] == '$':
		return m.functionMacro(i, end)
	case i+1 < end && m.src[i+1] == '(':
		node, next, ok := m.reference(i, i+2, end)
		if !ok || next >= end || m.src[next] != ')' {
			return nil, 0, false
		}
		next++
		node.Position = m.position(i, next)
		return node, next, true
	default:
		return m.reference(i, i+1, end)
	}
}

func (m *mapper) reference(start, j, end int) (*dast.Node, int, bool) {
	part, next, ok := m.pathPart(j, end)
	if !ok {
		return nil, 0, false
	}

	node := &dast.Node{
		Kind:  dast.NodeMacro,
		Macro: &dast.MacroAttrs{Path: []dast.PathPart{part}},
	}
	node.Macro.AccessedProp, next = m.accessedProp(next, end)
	node.Position = m.position(start, next)
	return node, next, true
}

func (m *mapper) functionMacro(start, end int) (*dast.Node, int, bool) {
	part, next, ok := m.pathPart(start+2, end)
	if !ok || next >= end || m.src[next] != '(' {
		return nil, 0, false
	}

	input, next, ok := m.arguments(next, end)
	if !ok {
		return nil, 0, false
	}

	node := &dast.Node{
		Kind:  dast.NodeFunctionMacro,
		Macro: &dast.MacroAttrs{Path: []dast.PathPart{part}, Input: input},
	}
	node.Macro.AccessedProp, next = m.accessedProp(next, end)
	node.Position = m.position(start, next)
	return node, next, true
}

// accessedProp parses a `.prop` chain at j. It returns nil and j unchanged
// when no property follows.
func (m *mapper) accessedProp(j, end int) (*dast.Node, int) {
	if j+1 >= end || m.src[j] != '.' || !isIdentStart(m.src[j+1]) {
		return nil, j
	}

	part, next, ok := m.pathPart(j+1, end)
	if !ok {
		return nil, j
	}

	prop := &dast.Node{
		Kind:  dast.NodeMacro,
		Macro: &dast.MacroAttrs{Path: []dast.PathPart{part}},
	}
	prop.Macro.AccessedProp, next = m.accessedProp(next, end)
	prop.Position = m.position(j+1, next)
	return prop, next
}

// pathPart parses a name followed by any number of [index] suffixes.
func (m *mapper) pathPart(j, end int) (dast.PathPart, int, bool) {
	if j >= end || !isIdentStart(m.src[j]) {
		return dast.PathPart{}, 0, false
	}

	nameStart := j
	for j < end && isIdentChar(m.src[j]) {
		j++
	}
	part := dast.PathPart{Name: m.src[nameStart:j]}

	for j < end && m.src[j] == '[' {
		closeAt := m.matching(j, end, '[', ']')
		if closeAt < 0 {
			break
		}
		part.Index = append(part.Index, dast.Index{Value: m.inline(j+1, closeAt)})
		j = closeAt + 1
	}

	return part, j, true
}

// arguments parses a parenthesized, comma-separated argument list at j.
func (m *mapper) arguments(j, end int) ([][]*dast.Node, int, bool) {
	closeAt := m.matching(j, end, '(', ')')
	if closeAt < 0 {
		return nil, 0, false
	}

	input := [][]*dast.Node{}
	if strings.TrimSpace(m.src[j+1:closeAt]) == "" {
		return input, closeAt + 1, true
	}

	depth := 0
	argStart := j + 1
	for k := j + 1; k <= closeAt; k++ {
		switch c := m.src[k]; {
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && k < closeAt:
			depth--
		case (c == ',' && depth == 0) || k == closeAt:
			s, e := trimSpan(m.src, argStart, k)
			input = append(input, m.inline(s, e))
			argStart = k + 1
		}
	}

	return input, closeAt + 1, true
}

// matching returns the offset of the delimiter closing the one at j, or -1.
func (m *mapper) matching(j, end int, open, closer byte) int {
	depth := 0
	for k := j; k < end; k++ {
		switch m.src[k] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

func trimSpan(s string, start, end int) (int, int) {
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return start, end
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
