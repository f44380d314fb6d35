package lint

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/schema"
	"github.com/yaklabco/mlsense/pkg/source"
)

// FileResult contains the results of checking a single document.
type FileResult struct {
	// Path identifies the document.
	Path string

	// Source is the checked document.
	Source *source.Object

	// Diagnostics contains all issues found, ordered by start offset.
	Diagnostics []Diagnostic

	// RuleErrors contains any errors from rule execution.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// CountBySeverity returns the number of diagnostics with the given severity.
func (fr *FileResult) CountBySeverity(sev config.Severity) int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.Severity == sev {
			count++
		}
	}
	return count
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger used for rule failures.
func WithEngineLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine coordinates rule execution for a document.
type Engine struct {
	// Registry holds all available rules.
	Registry *Registry

	// Schema is the schema documents are checked against.
	Schema *schema.Schema

	logger *log.Logger
}

// NewEngine creates a new Engine with the given registry and schema.
// A nil schema selects schema.Default().
func NewEngine(registry *Registry, sch *schema.Schema, opts ...EngineOption) *Engine {
	if sch == nil {
		sch = schema.Default()
	}
	e := &Engine{
		Registry: registry,
		Schema:   sch,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LintFile parses content and checks it.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("linting cancelled: %w", err)
	}
	return e.Check(ctx, path, source.New(string(content), source.WithLogger(e.logger)), cfg)
}

// Check runs every enabled rule against an already loaded document.
func (e *Engine) Check(
	ctx context.Context,
	path string,
	obj *source.Object,
	cfg *config.Config,
) (*FileResult, error) {
	resolved := ResolveRules(e.Registry, cfg)

	result := &FileResult{
		Path:       path,
		Source:     obj,
		RuleErrors: make(map[string]error),
	}

	for _, rr := range resolved {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("linting cancelled: %w", ctx.Err())
		default:
		}

		ruleCtx := NewRuleContext(ctx, path, obj, e.Schema, cfg, rr.Config)
		ruleCtx.Registry = e.Registry

		diags, err := rr.Rule.Apply(ruleCtx)
		if err != nil {
			e.logger.Warn("rule failed", "rule", rr.Rule.ID(), "path", path, "error", err)
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		for i, d := range diags {
			b := editDiagnostic(d).
				WithRuleName(d.RuleName, e.Registry).
				WithSeverity(rr.Severity)
			if d.FilePath == "" {
				b.WithFile(path)
			}
			diags[i] = b.Build()
		}

		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	slices.SortStableFunc(result.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.RuleID, b.RuleID),
		)
	})

	return result, nil
}
