package lint

import (
	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/dast"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic spanning the given node.
// A node without a position produces a diagnostic at the zero range.
func NewDiagnostic(ruleID string, node *dast.Node, message string) *DiagnosticBuilder {
	var pos dast.Position
	if node != nil && node.Position != nil {
		pos = *node.Position
	}
	return NewDiagnosticAt(ruleID, "", pos, message)
}

// NewDiagnosticAt starts building a diagnostic at a specific position.
func NewDiagnosticAt(
	ruleID string,
	filePath string,
	pos dast.Position,
	message string,
) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:      ruleID,
			Message:     message,
			FilePath:    filePath,
			StartOffset: pos.Start.Offset,
			EndOffset:   pos.End.Offset,
			StartLine:   pos.Start.Line,
			StartColumn: pos.Start.Column,
			EndLine:     pos.End.Line,
			EndColumn:   pos.End.Column,
		},
	}
}

func editDiagnostic(d Diagnostic) *DiagnosticBuilder {
	return &DiagnosticBuilder{diag: d}
}

// WithRuleName sets the rule name, looking it up in reg when name is empty.
func (b *DiagnosticBuilder) WithRuleName(name string, reg *Registry) *DiagnosticBuilder {
	if name == "" && reg != nil {
		if rule, ok := reg.GetByID(b.diag.RuleID); ok {
			name = rule.Name()
		}
	}
	b.diag.RuleName = name
	return b
}

// WithFile sets the document path.
func (b *DiagnosticBuilder) WithFile(path string) *DiagnosticBuilder {
	b.diag.FilePath = path
	return b
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable hint.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
