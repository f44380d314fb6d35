package lint

import (
	"maps"
	"slices"

	"github.com/yaklabco/mlsense/pkg/config"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules determines which rules to run based on registry and config.
// Configuration keys may be rule IDs, names, or aliases.
// Returns only enabled rules with their resolved configuration.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule

	ruleCfgs := canonicalRuleConfigs(registry, cfg)
	enable := canonicalIDs(registry, cfg, func(c *config.Config) []string { return c.EnableRules })
	disable := canonicalIDs(registry, cfg, func(c *config.Config) []string { return c.DisableRules })

	for _, rule := range registry.Rules() {
		rr := ResolvedRule{
			Rule:     rule,
			Enabled:  rule.DefaultEnabled(),
			Severity: rule.DefaultSeverity(),
		}

		if ruleCfg, ok := ruleCfgs[rule.ID()]; ok {
			rr.Config = &ruleCfg
			if ruleCfg.Enabled != nil {
				rr.Enabled = *ruleCfg.Enabled
			}
			if ruleCfg.Severity != nil {
				rr.Severity = config.Severity(*ruleCfg.Severity)
			}
		}

		// CLI flags override file configuration.
		if enable[rule.ID()] {
			rr.Enabled = true
		}
		if disable[rule.ID()] {
			rr.Enabled = false
		}

		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

// canonicalRuleConfigs rekeys cfg.Rules by rule ID. When several keys name
// the same rule, the ID key wins, then the first key in sorted order.
func canonicalRuleConfigs(registry *Registry, cfg *config.Config) map[string]config.RuleConfig {
	out := make(map[string]config.RuleConfig)
	if cfg == nil {
		return out
	}

	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		id, _, ok := registry.Resolve(key)
		if !ok {
			continue
		}
		if _, seen := out[id]; seen && key != id {
			continue
		}
		out[id] = cfg.Rules[key]
	}
	return out
}

func canonicalIDs(registry *Registry, cfg *config.Config, keys func(*config.Config) []string) map[string]bool {
	out := make(map[string]bool)
	if cfg == nil {
		return out
	}
	for _, key := range keys(cfg) {
		if id, _, ok := registry.Resolve(key); ok {
			out[id] = true
		}
	}
	return out
}
