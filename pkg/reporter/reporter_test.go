package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/lint"
	"github.com/yaklabco/mlsense/pkg/reporter"
	"github.com/yaklabco/mlsense/pkg/runner"
	"github.com/yaklabco/mlsense/pkg/source"
)

const testDoc = "<a>\n  <c>hi</c>\n</a>"

func createTestResult() *runner.Result {
	obj := source.New(testDoc)
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "/work/docs/test.ml",
				Result: &lint.FileResult{
					Path:   "/work/docs/test.ml",
					Source: obj,
					Diagnostics: []lint.Diagnostic{
						{
							RuleID:      "ML001",
							RuleName:    "schema-children",
							Message:     "Element <c> is not allowed inside <a>.",
							Severity:    config.SeverityError,
							StartOffset: 6,
							EndOffset:   15,
							StartLine:   2,
							StartColumn: 3,
							EndLine:     2,
							EndColumn:   12,
							Suggestion:  "allowed here: b",
						},
						{
							RuleID:      "ML002",
							RuleName:    "unclosed-element",
							Message:     "Element <a> is never closed.",
							Severity:    config.SeverityWarning,
							StartOffset: 0,
							EndOffset:   3,
							StartLine:   1,
							StartColumn: 1,
							EndLine:     1,
							EndColumn:   4,
						},
					},
				},
			},
		},
		Stats: runner.Stats{
			FilesDiscovered:  1,
			FilesProcessed:   1,
			DiagnosticsTotal: 2,
			FilesWithIssues:  1,
			DiagnosticsBySeverity: map[config.Severity]int{
				config.SeverityError:   1,
				config.SeverityWarning: 1,
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "json", want: reporter.FormatJSON},
		{input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, got.IsValid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "default", format: ""},
		{name: "text", format: reporter.FormatText},
		{name: "json", format: reporter.FormatJSON},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to check")
}

func TestTextReporter_WithDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		ShowContext: true,
		WorkingDir:  "/work",
		RuleFormat:  config.RuleFormatCombined,
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "docs/test.ml")
	assert.NotContains(t, output, "/work/docs")
	assert.Contains(t, output, "ML001")
	assert.Contains(t, output, "schema-children")
	assert.Contains(t, output, "is not allowed inside <a>")
	assert.Contains(t, output, "<c>hi</c>", "source context line")
	assert.Contains(t, output, "2 issues")
	assert.Contains(t, output, "^^^^^^^^^\n", "underline spans <c>hi</c>")
}

func TestTextReporter_DetailedSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:          &buf,
		Color:           "never",
		ShowSummary:     true,
		DetailedSummary: true,
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Summary")
	assert.Contains(t, output, "Files checked:     1")
	assert.Contains(t, output, "Check failed with errors")
	assert.NotContains(t, output, "2 issues (")
}

func TestTextReporter_FileError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})

	result := &runner.Result{
		Files: []runner.FileOutcome{{Path: "broken.ml", Error: errors.New("permission denied")}},
		Stats: runner.Stats{FilesErrored: 1, DiagnosticsBySeverity: map[config.Severity]int{}},
	}

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "broken.ml")
	assert.Contains(t, buf.String(), "permission denied")
}

func TestJSONReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_WithDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 1)
	assert.Equal(t, "docs/test.ml", output.Files[0].Path)
	require.Len(t, output.Files[0].Diagnostics, 2)

	first := output.Files[0].Diagnostics[0]
	assert.Equal(t, "ML001", first.RuleID)
	assert.Equal(t, 6, first.StartOffset)
	assert.Equal(t, 15, first.EndOffset)
	assert.Equal(t, "allowed here: b", first.Suggestion)

	assert.Equal(t, 2, output.Summary.TotalIssues)
	assert.Equal(t, 1, output.Summary.FilesWithIssues)
	assert.Equal(t, 1, output.Summary.BySeverity["error"])
	assert.Equal(t, 1, output.Summary.BySeverity["warning"])
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}
