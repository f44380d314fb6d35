package lint

import (
	"context"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/schema"
	"github.com/yaklabco/mlsense/pkg/source"
)

// RuleContext provides all context needed by a rule to check a document.
//
// RuleContext is a short-lived parameter object created per rule invocation,
// so it carries its context.Context as a field.
type RuleContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// Path identifies the document in diagnostics.
	Path string

	// Source is the document being checked.
	Source *source.Object

	// Root is the document tree root (convenience alias for Source.Root()).
	Root *dast.Node

	// Schema is the schema the document is checked against.
	Schema *schema.Schema

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry
}

// NewRuleContext creates a RuleContext for the given document and configuration.
func NewRuleContext(
	ctx context.Context,
	path string,
	obj *source.Object,
	sch *schema.Schema,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	var root *dast.Node
	if obj != nil {
		root = obj.Root()
	}

	return &RuleContext{
		Ctx:        ctx,
		Path:       path,
		Source:     obj,
		Root:       root,
		Schema:     sch,
		Config:     cfg,
		RuleConfig: ruleCfg,
	}
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Option returns a rule-specific option value, or the default if not set.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionStringSlice returns a rule-specific string slice option, or the default.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	v := rc.Option(key, defaultValue)
	if slice, ok := v.([]string); ok {
		return slice
	}
	// YAML decodes sequences as []any.
	if iface, ok := v.([]any); ok {
		result := make([]string, 0, len(iface))
		for _, item := range iface {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
