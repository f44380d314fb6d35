package config

import (
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
}

// GenerateTemplate creates a commented starter configuration file
// documenting the given rules.
func GenerateTemplate(rules []RuleInfo) []byte {
	var buf strings.Builder

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Schema file (YAML or JSON); the built-in schema is used when unset.
# schema: schema.yaml

# Log level: debug, info, warn, or error
log_level: info

# Extensions treated as documents by "mlsense check"
extensions:
`)
	for _, ext := range DefaultExtensions() {
		fmt.Fprintf(&buf, "  - %q\n", ext)
	}

	buf.WriteString(`
# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"

completion:
  # Documentation format: markdown, plaintext, or none
  documentation: markdown

`)

	if len(rules) == 0 {
		return []byte(buf.String())
	}

	sorted := slices.Clone(rules)
	slices.SortFunc(sorted, func(a, b RuleInfo) int { return strings.Compare(a.ID, b.ID) })

	buf.WriteString("rules:\n")
	for _, rule := range sorted {
		fmt.Fprintf(&buf, "  # %s: %s\n", rule.ID, rule.Name)
		if rule.Description != "" {
			fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
	}

	return []byte(buf.String())
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mlsense configuration
# Place this file at the project root as .mlsense.yml`
}
