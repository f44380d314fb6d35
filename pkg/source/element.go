package source

import (
	"fmt"

	"github.com/yaklabco/mlsense/pkg/dast"
)

// Completeness describes how far an element's markup got. The two flags are
// independent: a tag missing its '>' may still be closed later, and a
// well-formed tag may never be closed.
type Completeness struct {
	// TagComplete is false when the open tag lacks its '>' or '/>'.
	TagComplete bool

	// Closed is true for self-closing elements and for elements with a
	// matching close tag.
	Closed bool
}

// IsCompleteElement inspects the syntax of el's tags.
func (o *Object) IsCompleteElement(el *dast.Node) (Completeness, error) {
	if !el.IsElement() {
		return Completeness{}, fmt.Errorf("is complete element: %w", ErrNotElement)
	}

	cst := o.syntaxElement(el)
	if cst == nil {
		return Completeness{}, nil
	}
	return Completeness{TagComplete: cst.TagComplete(), Closed: cst.Closed()}, nil
}

// ElementTagRanges returns the ranges of el's tags: the whole element for
// self-closing or childless elements, otherwise the open tag followed by the
// close tag. An element that was never closed yields only its open tag.
func (o *Object) ElementTagRanges(el *dast.Node) ([]dast.Position, error) {
	if !el.IsElement() {
		return nil, fmt.Errorf("element tag ranges: %w", ErrNotElement)
	}

	cst := o.syntaxElement(el)
	if cst == nil {
		return nil, nil
	}

	if !el.HasChildren() {
		if pos := o.Position(cst.Start, cst.End); pos != nil {
			return []dast.Position{*pos}, nil
		}
		return nil, nil
	}

	var ranges []dast.Position
	if tag := cst.Tag(); tag != nil {
		if pos := o.Position(tag.Start, tag.End); pos != nil {
			ranges = append(ranges, *pos)
		}
	}
	if closeTag := cst.CloseTag(); closeTag != nil {
		if pos := o.Position(closeTag.Start, closeTag.End); pos != nil {
			ranges = append(ranges, *pos)
		}
	}
	return ranges, nil
}
