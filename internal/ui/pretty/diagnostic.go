package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/lint"
)

const contextIndent = "        "

// FormatDiagnostic renders one diagnostic as
//
//	path:line:col  severity  message  (rule)
//
// followed by the offending source line with its range underlined when
// sourceLine is non-empty, and the suggestion if there is one.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, ruleFormat config.RuleFormat, sourceLine string) string {
	var b strings.Builder

	location := s.FilePath.Render(diag.FilePath) +
		s.Location.Render(fmt.Sprintf(":%d:%d", diag.StartLine, diag.StartColumn))
	rule := config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName)

	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+rule+")"),
	)

	if sourceLine != "" {
		width := 1
		if diag.EndLine == diag.StartLine && diag.EndColumn > diag.StartColumn {
			width = diag.EndColumn - diag.StartColumn
		}
		b.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn, width))
	}

	if diag.Suggestion != "" {
		b.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return b.String()
}

// FormatSeverity returns the styled severity name.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	case config.SeverityHint:
		return s.Hint.Render("hint")
	}
	return string(sev)
}

// FormatSourceContext prints line with width carets under the 1-based
// column. A column of zero omits the caret line.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	out := contextIndent + s.SourceLine.Render(line) + "\n"
	if column <= 0 {
		return out
	}
	width = max(1, min(width, len(line)-column+1))
	return out + contextIndent + strings.Repeat(" ", column-1) + s.Caret.Render(strings.Repeat("^", width)) + "\n"
}

// FormatFileHeader renders the path heading a group of diagnostics.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, plural(issueCount, "issue", "issues")))
	}
	return header
}

// FormatCompletion renders one completion candidate as "label  kind".
func (s *Styles) FormatCompletion(label, kind string) string {
	return s.CompletionLabel.Render(label) + "  " + s.CompletionKind.Render(kind) + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
