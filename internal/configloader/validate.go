package configloader

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/lint"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.ML001.severity").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown rules).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins all validation errors, or returns nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for i := range r.Errors {
		errs = append(errs, &r.Errors[i])
	}
	return errors.Join(errs...)
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	knownLogLevels     = []string{"debug", "info", "warn", "warning", "error"}
	knownDocumentation = []string{"markdown", "plaintext", "none"}
	knownRuleFormats   = []config.RuleFormat{config.RuleFormatName, config.RuleFormatID, config.RuleFormatCombined}
	knownColorModes    = []config.ColorMode{config.ColorAuto, config.ColorAlways, config.ColorNever}
)

// Validate checks a configuration against the rules in registry.
// A nil registry means lint.DefaultRegistry.
func Validate(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	addErr := func(field string, value any, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if cfg.LogLevel != "" && !slices.Contains(knownLogLevels, strings.ToLower(cfg.LogLevel)) {
		addErr("log_level", cfg.LogLevel, "invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}
	if doc := cfg.Completion.Documentation; doc != "" && !slices.Contains(knownDocumentation, doc) {
		addErr("completion.documentation", doc, "invalid documentation mode %q; must be one of: markdown, plaintext, none", doc)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		addErr("format", cfg.Format, "invalid format %q; must be one of: text, json", cfg.Format)
	}
	if cfg.RuleFormat != "" && !slices.Contains(knownRuleFormats, cfg.RuleFormat) {
		addErr("rule_format", cfg.RuleFormat, "invalid rule format %q; must be one of: name, id, combined", cfg.RuleFormat)
	}
	if cfg.Color != "" && !slices.Contains(knownColorModes, cfg.Color) {
		addErr("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}
	if cfg.Jobs < 0 {
		addErr("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			addErr(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			addErr(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	keys := make([]string, 0, len(cfg.Rules))
	for key := range cfg.Rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		ruleCfg := cfg.Rules[key]
		if _, _, found := registry.Resolve(key); !found {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "rules." + key,
				Value:   key,
				Message: fmt.Sprintf("unknown rule %q; it will be ignored", key),
			})
		}
		if ruleCfg.Severity != nil && !config.Severity(*ruleCfg.Severity).IsValid() {
			addErr("rules."+key+".severity", *ruleCfg.Severity,
				"invalid severity %q; must be one of: error, warning, info, hint", *ruleCfg.Severity)
		}
	}

	return result
}

// ValidateWithFile validates cfg and tags every finding with filePath.
func ValidateWithFile(cfg *config.Config, registry *lint.Registry, filePath string) *ValidationResult {
	result := Validate(cfg, registry)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
