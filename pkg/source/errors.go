package source

import "errors"

var (
	// ErrNotElement is returned when an element-only operation receives
	// another kind of node.
	ErrNotElement = errors.New("node is not an element")

	// ErrNotMacro is returned when macro resolution receives a node without
	// macro data.
	ErrNotMacro = errors.New("node is not a macro")

	// ErrEmptyMacroPath is returned for a macro whose path has no parts.
	ErrEmptyMacroPath = errors.New("macro path is empty")

	// ErrIndexedFirstSegment is returned when the first segment of a macro
	// path carries an index; only bare names can be looked up by scope.
	ErrIndexedFirstSegment = errors.New("first macro path segment must not be indexed")
)
