// Package pretty renders diagnostics, summaries and completion listings
// for the terminal with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds the lipgloss styles used by the text output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Hint    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	CompletionLabel lipgloss.Style
	CompletionKind  lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// ANSI 256 palette indices.
const (
	colorGray    = lipgloss.Color("8")
	colorRed     = lipgloss.Color("9")
	colorGreen   = lipgloss.Color("10")
	colorYellow  = lipgloss.Color("11")
	colorBlue    = lipgloss.Color("12")
	colorMagenta = lipgloss.Color("13")
	colorCyan    = lipgloss.Color("14")
	colorSilver  = lipgloss.Color("7")
)

// NewStyles returns colored styles, or plain pass-through styles when
// colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return &Styles{
			Error: plain, Warning: plain, Info: plain, Hint: plain,
			FilePath: plain, Location: plain, RuleID: plain, Message: plain,
			Suggestion: plain, SourceLine: plain, Caret: plain,
			CompletionLabel: plain, CompletionKind: plain,
			SummaryTitle: plain, SummaryValue: plain, Success: plain, Failure: plain,
			Dim: plain, Bold: plain,
		}
	}

	fg := func(c lipgloss.Color) lipgloss.Style { return plain.Foreground(c) }
	bold := plain.Bold(true)

	return &Styles{
		Error:   fg(colorRed).Bold(true),
		Warning: fg(colorYellow).Bold(true),
		Info:    fg(colorBlue).Bold(true),
		Hint:    fg(colorCyan),

		FilePath:   bold,
		Location:   fg(colorGray),
		RuleID:     fg(colorGray),
		Message:    plain,
		Suggestion: fg(colorGreen).Italic(true),
		SourceLine: fg(colorSilver),
		Caret:      fg(colorRed),

		CompletionLabel: bold,
		CompletionKind:  fg(colorMagenta),

		SummaryTitle: bold,
		SummaryValue: plain,
		Success:      fg(colorGreen).Bold(true),
		Failure:      fg(colorRed).Bold(true),

		Dim:  fg(colorGray),
		Bold: bold,
	}
}

// IsColorEnabled reports whether output to writer should be colored.
// mode is "always", "never" or "auto"; auto requires a terminal and an
// unset NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
