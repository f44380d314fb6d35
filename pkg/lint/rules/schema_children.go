package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/lint"
)

// SchemaChildrenRule reports elements the schema does not permit in their
// position: a top-level element that is not marked top-level, or a nested
// element missing from its parent's children list.
//
// Options:
//   - ignore: element names that are never reported.
type SchemaChildrenRule struct {
	lint.BaseRule
}

// NewSchemaChildrenRule creates a new schema-children rule.
func NewSchemaChildrenRule() *SchemaChildrenRule {
	return &SchemaChildrenRule{
		BaseRule: lint.NewBaseRule(
			"ML001",
			"schema-children",
			"Elements must be allowed by the schema where they appear",
			[]string{"schema", "structure"},
		).WithDefaults(true, config.SeverityError),
	}
}

// Apply walks the tree once and checks every (element, parent) pair.
func (r *SchemaChildrenRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Root == nil || ctx.Schema == nil {
		return nil, nil
	}

	ignored := make(map[string]bool)
	for _, name := range ctx.OptionStringSlice("ignore", nil) {
		ignored[strings.ToLower(name)] = true
	}

	var diags []lint.Diagnostic

	err := dast.WalkWithContext(ctx.Root, func(node, parent *dast.Node) error {
		if ctx.Cancelled() {
			return fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		// Elements with an empty name are tag fragments still being typed.
		if !node.IsElement() || node.Name == "" || parent == nil {
			return nil
		}
		if ignored[strings.ToLower(node.Name)] {
			return nil
		}

		var message string
		switch {
		case parent.IsRoot():
			if ctx.Schema.IsTopLevel(node.Name) {
				return nil
			}
			message = fmt.Sprintf("Element <%s> is not allowed at the root of the document.", node.Name)
		case parent.IsElement():
			if ctx.Schema.AllowsChild(parent.Name, node.Name) {
				return nil
			}
			message = fmt.Sprintf("Element <%s> is not allowed inside <%s>.", node.Name, parent.Name)
		default:
			return nil
		}

		diags = append(diags, lint.NewDiagnostic(r.ID(), node, message).
			WithFile(ctx.Path).
			WithSuggestion(r.suggestion(ctx, parent)).
			Build())
		return nil
	}, nil)
	if err != nil {
		return diags, err
	}

	return diags, nil
}

func (r *SchemaChildrenRule) suggestion(ctx *lint.RuleContext, parent *dast.Node) string {
	var allowed []string
	if parent.IsRoot() {
		allowed = ctx.Schema.TopLevel()
	} else {
		allowed = ctx.Schema.Children(parent.Name)
	}
	if len(allowed) == 0 {
		return ""
	}
	return fmt.Sprintf("allowed here: %s", joinNames(allowed))
}
