// Package source answers point queries against one markup document: which
// node sits at an offset, where inside an element a cursor falls, and what a
// name or macro reference resolves to.
//
// # Derived Data
//
// Every index (parse result, parent map, offset maps, descendant-name map)
// is computed on first use and kept until the source changes. SetSource with
// a different string discards all of them at once; SetSource with the same
// string is a no-op.
//
// # Thread Safety
//
// Object is NOT thread-safe. Use one Object per document and serialize
// access to it.
package source

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/lazy"
	"github.com/yaklabco/mlsense/pkg/parser"
	"github.com/yaklabco/mlsense/pkg/position"
	"github.com/yaklabco/mlsense/pkg/syntax"
)

// Slot identifies one derived index of an Object.
type Slot uint8

// Derived index slots.
const (
	SlotParse Slot = iota
	SlotParents
	SlotOffsetMaps
	SlotAccess
)

var slotNames = [...]string{
	SlotParse:      "parse",
	SlotParents:    "parents",
	SlotOffsetMaps: "offset-maps",
	SlotAccess:     "access",
}

func (s Slot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return "unknown"
}

// Object holds a source string and lazily derived indices over it.
type Object struct {
	source string
	logger *log.Logger
	cache  *lazy.Cache[Slot]

	parse   lazy.Value[Slot, *parser.Result]
	parents lazy.Value[Slot, map[*dast.Node]*dast.Node]
	offsets lazy.Value[Slot, *offsetMaps]
	access  lazy.Value[Slot, map[*dast.Node][]NamedElement]
}

// Option configures an Object.
type Option func(*Object)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(o *Object) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Object for src.
func New(src string, opts ...Option) *Object {
	o := &Object{
		source: src,
		logger: log.Default(),
		cache:  lazy.New[Slot](),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.parse = lazy.Register(o.cache, SlotParse, o.computeParse)
	o.parents = lazy.Register(o.cache, SlotParents, o.computeParents)
	o.offsets = lazy.Register(o.cache, SlotOffsetMaps, o.computeOffsetMaps)
	o.access = lazy.Register(o.cache, SlotAccess, o.computeAccess)

	return o
}

// Source returns the current source string.
func (o *Object) Source() string {
	return o.source
}

// SetSource replaces the source. All derived data is discarded unless src
// equals the current source.
func (o *Object) SetSource(src string) {
	if src == o.source {
		return
	}
	o.source = src
	o.cache.InvalidateAll()
	o.logger.Debug("source replaced", "length", len(src))
}

// Computed reports whether the given index is currently cached.
func (o *Object) Computed(slot Slot) bool {
	return o.cache.Computed(slot)
}

// Parsed returns the full parse result.
func (o *Object) Parsed() *parser.Result {
	return o.parse.Get()
}

// Root returns the document tree.
func (o *Object) Root() *dast.Node {
	return o.parse.Get().Root
}

// Syntax returns the concrete syntax tree.
func (o *Object) Syntax() *syntax.Tree {
	return o.parse.Get().Syntax
}

// Index returns the position index of the current source.
func (o *Object) Index() *position.Index {
	return o.parse.Get().Index
}

// Position converts a half-open offset range to a native dast position.
func (o *Object) Position(start, end int) *dast.Position {
	idx := o.Index()
	s, ok := idx.OffsetToPosition(start)
	if !ok {
		return nil
	}
	e, ok := idx.OffsetToPosition(end)
	if !ok {
		return nil
	}
	return &dast.Position{
		Start: dast.Point{Line: s.Line, Column: s.Column, Offset: start},
		End:   dast.Point{Line: e.Line, Column: e.Column, Offset: end},
	}
}
