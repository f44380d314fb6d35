// Package parser turns markup source into the document tree consumed by the
// analysis engine. It builds the concrete syntax tree with package syntax and
// lowers it to dast nodes, scanning text and attribute values for macros.
package parser

import (
	"context"
	"fmt"

	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/position"
	"github.com/yaklabco/mlsense/pkg/syntax"
)

// Result is everything derived from one parse.
type Result struct {
	// Source is the parsed text.
	Source string

	// Syntax is the lossless concrete syntax tree.
	Syntax *syntax.Tree

	// Root is the document tree.
	Root *dast.Node

	// Index translates offsets of Source to line/column positions.
	Index *position.Index
}

// Parser parses documents for the lint engine and runner.
type Parser struct{}

// New creates a parser.
func New() *Parser {
	return &Parser{}
}

// Parse parses content read from path. Parsing itself cannot fail; an error
// is returned only when ctx is cancelled.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s cancelled: %w", path, err)
	}
	return Parse(string(content)), nil
}

// Parse parses src into a syntax tree and a document tree.
func Parse(src string) *Result {
	tree := syntax.Parse(src)
	idx := position.New(src)

	m := newMapper(src, idx)
	root := m.mapDocument(tree.Root)

	return &Result{
		Source: src,
		Syntax: tree,
		Root:   root,
		Index:  idx,
	}
}
