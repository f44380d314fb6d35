package rules

import (
	"fmt"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/lint"
)

// UnclosedElementRule reports elements whose start tag is cut short or that
// are never closed. The range covers the start tag only.
type UnclosedElementRule struct {
	lint.BaseRule
}

// NewUnclosedElementRule creates a new unclosed-element rule.
func NewUnclosedElementRule() *UnclosedElementRule {
	return &UnclosedElementRule{
		BaseRule: lint.NewBaseRule(
			"ML002",
			"unclosed-element",
			"Elements should have a complete start tag and a matching close tag",
			[]string{"structure"},
		).WithDefaults(false, config.SeverityWarning),
	}
}

// Apply checks every named element.
func (r *UnclosedElementRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Source == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for _, el := range dast.Elements(ctx.Root) {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if el.Name == "" {
			continue
		}

		state, err := ctx.Source.IsCompleteElement(el)
		if err != nil {
			return diags, fmt.Errorf("element <%s>: %w", el.Name, err)
		}

		var message, suggestion string
		switch {
		case !state.TagComplete:
			message = fmt.Sprintf("Start tag of <%s> is not terminated.", el.Name)
			suggestion = "add >"
		case !state.Closed:
			message = fmt.Sprintf("Element <%s> is never closed.", el.Name)
			suggestion = fmt.Sprintf("add </%s>", el.Name)
		default:
			continue
		}

		ranges, err := ctx.Source.ElementTagRanges(el)
		if err != nil || len(ranges) == 0 {
			continue
		}

		diags = append(diags, lint.NewDiagnosticAt(r.ID(), ctx.Path, ranges[0], message).
			WithSuggestion(suggestion).
			Build())
	}

	return diags, nil
}
