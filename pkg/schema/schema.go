// Package schema describes which elements, attributes, and attribute values
// a document may use, and compiles that description into case-insensitive
// lookup tables.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDuplicateElement is returned when two schema entries share a name.
var ErrDuplicateElement = errors.New("duplicate element")

// Attribute is an attribute an element accepts.
type Attribute struct {
	Name string `yaml:"name" json:"name"`

	// Values enumerates the allowed values. Empty means any value.
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`

	// Description is Markdown shown alongside completions.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Element is one schema entry.
type Element struct {
	Name string `yaml:"name" json:"name"`

	// Top marks elements allowed directly at the document root.
	Top bool `yaml:"top,omitempty" json:"top,omitempty"`

	Attributes []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`

	// Children lists the element names allowed inside this element.
	Children []string `yaml:"children,omitempty" json:"children,omitempty"`

	AcceptsStringChildren bool `yaml:"acceptsStringChildren,omitempty" json:"acceptsStringChildren,omitempty"`

	// Description is Markdown shown alongside completions.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type compiledElement struct {
	def *Element

	// attrNames maps a lower-cased attribute name to its declared form.
	attrNames map[string]string
	attrs     map[string]*Attribute

	// children holds canonical child names in declaration order.
	children   []string
	childIndex map[string]struct{}
}

// Schema is a compiled, read-only schema.
type Schema struct {
	elements []Element

	// names maps a lower-cased element name to its declared form.
	names    map[string]string
	compiled map[string]*compiledElement
	top      []string
}

// New compiles elements. Names are matched case-insensitively; when two
// names differ only in case the first declaration wins. Exact duplicates are
// an error.
func New(elements []Element) (*Schema, error) {
	s := &Schema{
		elements: make([]Element, len(elements)),
		names:    make(map[string]string, len(elements)),
		compiled: make(map[string]*compiledElement, len(elements)),
	}
	copy(s.elements, elements)

	for i := range s.elements {
		el := &s.elements[i]
		if el.Name == "" {
			return nil, fmt.Errorf("element %d: name is required", i)
		}
		if _, exists := s.compiled[el.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateElement, el.Name)
		}

		lower := strings.ToLower(el.Name)
		if _, taken := s.names[lower]; !taken {
			s.names[lower] = el.Name
		}

		ce := &compiledElement{
			def:        el,
			attrNames:  make(map[string]string, len(el.Attributes)),
			attrs:      make(map[string]*Attribute, len(el.Attributes)),
			childIndex: make(map[string]struct{}, len(el.Children)),
		}
		for j := range el.Attributes {
			attr := &el.Attributes[j]
			lowerAttr := strings.ToLower(attr.Name)
			if _, taken := ce.attrNames[lowerAttr]; taken {
				continue
			}
			ce.attrNames[lowerAttr] = attr.Name
			ce.attrs[attr.Name] = attr
		}
		s.compiled[el.Name] = ce

		if el.Top {
			s.top = append(s.top, el.Name)
		}
	}

	// Children may name elements declared later, so they are resolved once
	// every name is known.
	for _, ce := range s.compiled {
		for _, child := range ce.def.Children {
			name := s.NormalizeElementName(child)
			if _, dup := ce.childIndex[name]; dup {
				continue
			}
			ce.childIndex[name] = struct{}{}
			ce.children = append(ce.children, name)
		}
	}

	return s, nil
}

// NormalizeElementName returns the declared spelling of name, matched
// case-insensitively. Unknown names are returned unchanged.
func (s *Schema) NormalizeElementName(name string) string {
	if s == nil {
		return name
	}
	if canonical, ok := s.names[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// NormalizeAttributeName returns the declared spelling of attribute attr on
// element, matched case-insensitively. Unknown names are returned unchanged.
func (s *Schema) NormalizeAttributeName(element, attr string) string {
	ce := s.lookup(element)
	if ce == nil {
		return attr
	}
	if canonical, ok := ce.attrNames[strings.ToLower(attr)]; ok {
		return canonical
	}
	return attr
}

func (s *Schema) lookup(element string) *compiledElement {
	if s == nil {
		return nil
	}
	return s.compiled[s.NormalizeElementName(element)]
}

// Element returns the entry for name.
func (s *Schema) Element(name string) (*Element, bool) {
	ce := s.lookup(name)
	if ce == nil {
		return nil, false
	}
	return ce.def, true
}

// Elements returns every entry in declaration order. Do not mutate the
// returned slice.
func (s *Schema) Elements() []Element {
	if s == nil {
		return nil
	}
	return s.elements
}

// TopLevel returns the names allowed at the document root in declaration
// order.
func (s *Schema) TopLevel() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.top)
}

// IsTopLevel reports whether name may appear at the document root.
func (s *Schema) IsTopLevel(name string) bool {
	ce := s.lookup(name)
	return ce != nil && ce.def.Top
}

// Children returns the canonical names allowed inside parent.
func (s *Schema) Children(parent string) []string {
	ce := s.lookup(parent)
	if ce == nil {
		return nil
	}
	return slices.Clone(ce.children)
}

// AllowsChild reports whether child may appear inside parent.
func (s *Schema) AllowsChild(parent, child string) bool {
	ce := s.lookup(parent)
	if ce == nil {
		return false
	}
	_, ok := ce.childIndex[s.NormalizeElementName(child)]
	return ok
}

// Attributes returns the attributes declared for element.
func (s *Schema) Attributes(element string) []Attribute {
	ce := s.lookup(element)
	if ce == nil {
		return nil
	}
	return ce.def.Attributes
}

// Attribute returns the declaration of attr on element.
func (s *Schema) Attribute(element, attr string) (*Attribute, bool) {
	ce := s.lookup(element)
	if ce == nil {
		return nil, false
	}
	a, ok := ce.attrs[s.NormalizeAttributeName(element, attr)]
	return a, ok
}

// AttributeValues returns the enumerated values of attr on element. The
// boolean is false when the attribute is unknown or accepts any value.
func (s *Schema) AttributeValues(element, attr string) ([]string, bool) {
	a, ok := s.Attribute(element, attr)
	if !ok || len(a.Values) == 0 {
		return nil, false
	}
	return a.Values, true
}
