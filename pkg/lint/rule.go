// Package lint provides the rule engine, diagnostics, and registry for mlsense.
package lint

import (
	"go.lsp.dev/protocol"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/position"
)

// Source is the value of protocol.Diagnostic.Source for every diagnostic.
const Source = "mlsense"

// Diagnostic represents a single issue found in a document.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "schema-children").
	RuleName string

	// Message is the human-readable description of the issue.
	Message string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// FilePath is the path or URI of the document containing the issue.
	FilePath string

	// StartOffset and EndOffset are the 0-based byte range [start, end).
	StartOffset int
	EndOffset   int

	// StartLine is the 1-based line number where the issue starts.
	StartLine int

	// StartColumn is the 1-based column number where the issue starts.
	StartColumn int

	// EndLine is the 1-based line number where the issue ends.
	EndLine int

	// EndColumn is the 1-based column number where the issue ends.
	EndColumn int

	// Suggestion is an optional human-readable hint.
	Suggestion string
}

// SourcePosition returns the diagnostic range as a dast.Position.
func (d *Diagnostic) SourcePosition() dast.Position {
	return dast.Position{
		Start: dast.Point{Line: d.StartLine, Column: d.StartColumn, Offset: d.StartOffset},
		End:   dast.Point{Line: d.EndLine, Column: d.EndColumn, Offset: d.EndOffset},
	}
}

// ToProtocol converts the diagnostic to its language server form. Ranges
// are measured through idx, so characters count UTF-16 code units. A nil
// idx, or offsets idx does not cover, falls back to shifting the native
// line and column down by one.
func (d *Diagnostic) ToProtocol(idx *position.Index) protocol.Diagnostic {
	var (
		rng protocol.Range
		ok  bool
	)
	if idx != nil {
		rng, ok = idx.RangeToProtocol(d.StartOffset, d.EndOffset)
	}
	if !ok {
		pos := d.SourcePosition()
		rng = protocol.Range{Start: shiftPoint(pos.Start), End: shiftPoint(pos.End)}
	}

	return protocol.Diagnostic{
		Range:    rng,
		Severity: ProtocolSeverity(d.Severity),
		Code:     d.RuleID,
		Source:   Source,
		Message:  d.Message,
	}
}

func shiftPoint(p dast.Point) protocol.Position {
	return protocol.Position{
		Line:      uint32(max(p.Line-1, 0)),   //nolint:gosec // clamped non-negative
		Character: uint32(max(p.Column-1, 0)), //nolint:gosec // clamped non-negative
	}
}

// ProtocolSeverity maps a configured severity onto the protocol scale.
// Unknown severities are reported as errors.
func ProtocolSeverity(s config.Severity) protocol.DiagnosticSeverity {
	switch s {
	case config.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case config.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	case config.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// Rule defines the interface that all rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "ML001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule (e.g., ["schema"]).
	Tags() []string

	// Apply executes the rule against the given context and returns diagnostics.
	//
	// Rules must:
	//   - Return diagnostics for each violation found.
	//   - Respect context cancellation.
	//   - Return error only for internal failures, not violations.
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
