package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mlsense/internal/cli"
	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/runner"
)

const testSchemaYAML = `elements:
  - name: a
    top: true
    children: [b]
    attributes:
      - name: size
        values: [small, large]
  - name: b
  - name: c
    top: true
`

// workspace writes a schema, a config naming it, and the given documents.
func workspace(t *testing.T, docs map[string]string) (dir, configPath string) {
	t.Helper()

	dir = t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchemaYAML), 0o644))

	configPath = filepath.Join(dir, "test-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("schema: "+schemaPath+"\n"), 0o644))

	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir, configPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	assert.Equal(t, "mlsense", cmd.Use)

	for _, name := range []string{"serve", "check", "complete", "schema", "rules", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t, map[string]string{
		"good.ml": "<a><b/></a>",
		"bad.ml":  "<a>\n  <c/>\n</a>",
		"skip.md": "<c><c/></c>",
	})

	out, err := execute(t, "check", "--config", configPath, "--color", "never", "--rule-format", "combined", dir)
	require.ErrorIs(t, err, cli.ErrIssuesFound)

	assert.Contains(t, out, "bad.ml")
	assert.NotContains(t, out, "good.ml")
	assert.NotContains(t, out, "skip.md")
	assert.Contains(t, out, "ML001/schema-children")
	assert.Contains(t, out, "Element <c> is not allowed inside <a>.")
	assert.Contains(t, out, "<c/>", "source context")
}

func TestCheckCommand_Clean(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t, map[string]string{"good.ml": "<a><b/></a>\n<c/>"})

	out, err := execute(t, "check", "--config", configPath, "--color", "never", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found")
}

func TestCheckCommand_JSONAndRuleToggles(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t, map[string]string{"open.ml": "<a><b/>"})

	out, err := execute(t, "check", "--config", configPath, "--format", "json",
		"--enable", "unclosed-element", dir)
	require.NoError(t, err, "warnings do not fail without --strict")

	var report struct {
		Files []struct {
			Diagnostics []struct {
				RuleID   string `json:"ruleId"`
				Severity string `json:"severity"`
			} `json:"diagnostics"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 1)
	require.Len(t, report.Files[0].Diagnostics, 1)
	assert.Equal(t, "ML002", report.Files[0].Diagnostics[0].RuleID)
	assert.Equal(t, "warning", report.Files[0].Diagnostics[0].Severity)

	_, err = execute(t, "check", "--config", configPath, "--format", "json",
		"--enable", "ML002", "--strict", dir)
	require.ErrorIs(t, err, cli.ErrIssuesFound)

	_, err = execute(t, "check", "--config", configPath, "--format", "yaml", dir)
	require.Error(t, err)
}

func TestCompleteCommand(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t, map[string]string{"doc.ml": "<a size=>\n<"})
	doc := filepath.Join(dir, "doc.ml")

	tests := []struct {
		name     string
		position string
		want     []string
	}{
		{name: "byte offset", position: "8", want: []string{`"small"`, `"large"`}},
		{name: "line and column", position: "2:2", want: []string{"/a>", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, "complete", "--config", configPath, "--json", doc, tt.position)
			require.NoError(t, err)

			var items []struct {
				Label string `json:"label"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &items))

			labels := make([]string, 0, len(items))
			for _, item := range items {
				labels = append(labels, item.Label)
			}
			assert.Equal(t, tt.want, labels)
		})
	}

	out, err := execute(t, "complete", "--config", configPath, "--color", "never", doc, "2:2")
	require.NoError(t, err)
	assert.Contains(t, out, "b  element")

	_, err = execute(t, "complete", "--config", configPath, doc, "99")
	require.Error(t, err)
	_, err = execute(t, "complete", "--config", configPath, doc, "x:y")
	require.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	t.Parallel()

	_, configPath := workspace(t, nil)

	out, err := execute(t, "schema", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "elements:")
	assert.Contains(t, out, "name: a")
	assert.Contains(t, out, "- small")
}

func TestRulesCommand_JSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "rules", "--format", "json")
	require.NoError(t, err)

	var rules []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	require.Len(t, rules, 2)
	assert.Equal(t, "ML001", rules[0].ID)
	assert.True(t, rules[0].Enabled)
	assert.Equal(t, "unclosed-element", rules[1].Name)
	assert.False(t, rules[1].Enabled)
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), ".mlsense.yml")

	_, err := execute(t, "init", "--output", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = execute(t, "init", "--output", target)
	require.Error(t, err, "refuses to overwrite")

	_, err = execute(t, "init", "--output", target, "--force")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc")
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	withCounts := func(errs, warnings int) *runner.Result {
		return &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityError:   errs,
			config.SeverityWarning: warnings,
		}}}
	}

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, true))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(withCounts(0, 2), false))
	assert.Equal(t, cli.ExitCheckWarnings, cli.ExitCodeFromResult(withCounts(0, 2), true))
	assert.Equal(t, cli.ExitCheckErrors, cli.ExitCodeFromResult(withCounts(1, 0), false))
}
