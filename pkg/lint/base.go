package lint

import "github.com/yaklabco/mlsense/pkg/config"

// BaseRule provides a default implementation of the Rule interface.
// Embed this in rule implementations and override methods as needed.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
type BaseRule struct {
	id       string          // Unique identifier (e.g., "ML001")
	name     string          // Human-readable name
	desc     string          // Detailed description
	tags     []string        // Categorization tags
	enabled  bool            // Enabled when no configuration says otherwise
	severity config.Severity // Severity when no configuration says otherwise
}

// NewBaseRule creates an enabled BaseRule reporting warnings.
func NewBaseRule(id, name, desc string, tags []string) BaseRule {
	return BaseRule{
		id:       id,
		name:     name,
		desc:     desc,
		tags:     tags,
		enabled:  true,
		severity: config.SeverityWarning,
	}
}

// WithDefaults returns a copy of the rule with the given defaults.
func (r BaseRule) WithDefaults(enabled bool, severity config.Severity) BaseRule {
	r.enabled = enabled
	r.severity = severity
	return r
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// DefaultEnabled returns whether the rule is enabled by default.
func (r *BaseRule) DefaultEnabled() bool {
	return r.enabled
}

// DefaultSeverity returns the default severity for this rule.
func (r *BaseRule) DefaultSeverity() config.Severity {
	return r.severity
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// Apply must be overridden by concrete rule implementations.
// The default implementation returns no diagnostics.
func (r *BaseRule) Apply(_ *RuleContext) ([]Diagnostic, error) {
	return nil, nil
}
