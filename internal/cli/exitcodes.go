package cli

import (
	"errors"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/runner"
)

// ErrIssuesFound is returned when check reports issues that should fail the run.
var ErrIssuesFound = errors.New("issues found")

// Exit codes for mlsense.
const (
	// ExitSuccess indicates successful execution with no failing issues.
	ExitSuccess = 0

	// ExitCheckErrors indicates check completed but found errors.
	ExitCheckErrors = 1

	// ExitCheckWarnings indicates check found warnings in strict mode.
	ExitCheckWarnings = 2
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.DiagnosticsBySeverity[config.SeverityError] > 0 || result.Stats.FilesErrored > 0 {
		return ExitCheckErrors
	}

	if strict && result.Stats.DiagnosticsBySeverity[config.SeverityWarning] > 0 {
		return ExitCheckWarnings
	}

	return ExitSuccess
}
