// Package config defines core configuration types for mlsense.
// These types are pure data structures; loading and merging live in internal/configloader.
package config

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// IsValid returns true if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo, SeverityHint:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"`
}

// CompletionConfig controls the completion engine.
type CompletionConfig struct {
	// Documentation is "markdown", "plaintext" or "none".
	Documentation string `yaml:"documentation"`

	// TriggerCharacters are advertised to language clients.
	TriggerCharacters []string `yaml:"trigger_characters"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "schema-children"
	RuleFormatID       RuleFormat = "id"       // "ML001"
	RuleFormatCombined RuleFormat = "combined" // "ML001/schema-children"
)

// ColorMode controls colored terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the root configuration structure for mlsense.
type Config struct {
	// Schema is the path of a schema file; empty means the built-in schema.
	Schema string `yaml:"schema,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Extensions lists the file extensions treated as documents by check.
	Extensions []string `yaml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID or name.
	Rules map[string]RuleConfig `yaml:"rules,omitempty"`

	// Completion configures the completion engine.
	Completion CompletionConfig `yaml:"completion"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-"`

	// Color controls styled output.
	Color ColorMode `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-"`
}

// DefaultExtensions are the document extensions checked when none are configured.
func DefaultExtensions() []string {
	return []string{".ml", ".mlx"}
}

// DefaultTriggerCharacters are the characters that open a completion session.
func DefaultTriggerCharacters() []string {
	return []string{"<", "/", " ", "=", "\"", "$", "."}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel:   "info",
		Extensions: DefaultExtensions(),
		Rules:      make(map[string]RuleConfig),
		Completion: CompletionConfig{
			Documentation:     "markdown",
			TriggerCharacters: DefaultTriggerCharacters(),
		},
		Format:     FormatText,
		RuleFormat: RuleFormatName,
		Color:      ColorAuto,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}
