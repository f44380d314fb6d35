package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/runner"
)

const summaryDividerWidth = 40

type severityLabel struct {
	sev       config.Severity
	one, many string
}

//nolint:gochecknoglobals // fixed display order
var severityLabels = []severityLabel{
	{config.SeverityError, "error", "errors"},
	{config.SeverityWarning, "warning", "warnings"},
	{config.SeverityInfo, "info", "info"},
	{config.SeverityHint, "hint", "hints"},
}

func (s *Styles) severityStyle(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return s.Error
	case config.SeverityWarning:
		return s.Warning
	case config.SeverityInfo:
		return s.Info
	default:
		return s.Hint
	}
}

// FormatSummaryOneLine renders run statistics on one line, for example
// "3 issues (1 error, 2 warnings) in 2 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		line := s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files")))
		if stats.FilesErrored > 0 {
			line += ", " + s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored))
		}
		return line + "\n"
	}

	var parts []string
	for _, l := range severityLabels {
		if n := stats.DiagnosticsBySeverity[l.sev]; n > 0 {
			parts = append(parts, s.severityStyle(l.sev).Render(fmt.Sprintf("%d %s", n, plural(n, l.one, l.many))))
		}
	}

	line := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	line += fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, "file", "files"))
	if stats.FilesErrored > 0 {
		line += ", " + s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored))
	}
	return line + "\n"
}

// FormatSummary renders run statistics as a block with one row per
// counter and a closing verdict.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	row := func(indent int, label string, value int, style lipgloss.Style) {
		fmt.Fprintf(&b, "%s%-*s %s\n", strings.Repeat(" ", indent), 20-indent, label+":", style.Render(fmt.Sprint(value)))
	}

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row(2, "Files checked", stats.FilesProcessed, s.SummaryValue)
	if stats.FilesWithIssues > 0 {
		row(2, "Files with issues", stats.FilesWithIssues, s.Failure)
	}
	if stats.FilesErrored > 0 {
		row(2, "Files unreadable", stats.FilesErrored, s.Failure)
	}
	b.WriteString("\n")

	row(2, "Total issues", stats.DiagnosticsTotal, s.SummaryValue)
	for _, l := range severityLabels {
		if n := stats.DiagnosticsBySeverity[l.sev]; n > 0 {
			row(4, capitalize(l.many), n, s.severityStyle(l.sev))
		}
	}
	b.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[config.SeverityError] > 0 || stats.FilesErrored > 0:
		b.WriteString(s.Failure.Render("Check failed with errors"))
	case stats.DiagnosticsBySeverity[config.SeverityWarning] > 0:
		b.WriteString(s.Warning.Render("Check completed with warnings"))
	default:
		b.WriteString(s.Success.Render("Check passed"))
	}
	b.WriteString("\n")

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
