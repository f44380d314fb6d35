package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/lint"
	"github.com/yaklabco/mlsense/pkg/lint/rules"
)

func testRegistry() *lint.Registry {
	reg := lint.NewRegistry()
	rules.RegisterAll(reg)
	rules.RegisterAliases(reg)
	return reg
}

func hermetic(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
		Registry:         testRegistry(),
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), hermetic(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, "info", result.Config.LogLevel)
	assert.Equal(t, "markdown", result.Config.Completion.Documentation)
	assert.Equal(t, config.DefaultExtensions(), result.Config.Extensions)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeConfig(t, filepath.Join(root, ".mlsense.yml"), `
schema: schema.yaml
completion:
  documentation: plaintext
rules:
  ML002:
    enabled: true
`)
	nested := filepath.Join(root, "docs", "guide")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), hermetic(nested))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, ".mlsense.yml")}, result.LoadedFrom)
	assert.Equal(t, "schema.yaml", result.Config.Schema)
	assert.Equal(t, "plaintext", result.Config.Completion.Documentation)
	require.Contains(t, result.Config.Rules, "ML002")
	require.NotNil(t, result.Config.Rules["ML002"].Enabled)
	assert.True(t, *result.Config.Rules["ML002"].Enabled)
	assert.Equal(t, config.DefaultTriggerCharacters(), result.Config.Completion.TriggerCharacters)
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeConfig(t, filepath.Join(outer, ".mlsense.yml"), "log_level: debug\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeConfig(t, filepath.Join(root, ".mlsense.yml"), "log_level: debug\nschema: project.yaml\n")
	explicit := filepath.Join(root, "custom.yml")
	writeConfig(t, explicit, "schema: explicit.yaml\n")

	opts := hermetic(root)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "explicit.yaml", result.Config.Schema)
	assert.Equal(t, "debug", result.Config.LogLevel)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeConfig(t, filepath.Join(root, ".mlsense.yml"), "schema: project.yaml\n")

	opts := hermetic(root)
	opts.CLIConfig = &config.Config{
		Schema:       "cli.yaml",
		Format:       config.FormatJSON,
		Jobs:         3,
		DisableRules: []string{"ML001"},
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "cli.yaml", result.Config.Schema)
	assert.Equal(t, config.FormatJSON, result.Config.Format)
	assert.Equal(t, 3, result.Config.Jobs)
	assert.Equal(t, []string{"ML001"}, result.Config.DisableRules)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "rules: [", wantErr: "load project config"},
		{name: "bad severity", content: "rules:\n  ML001:\n    severity: fatal\n", wantErr: "invalid severity"},
		{name: "bad documentation", content: "completion:\n  documentation: html\n", wantErr: "invalid documentation mode"},
		{name: "bad extension", content: "extensions: [ml]\n", wantErr: "must start with a dot"},
		{name: "bad glob", content: "ignore: [\"[unclosed\"]\n", wantErr: "invalid glob pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
			writeConfig(t, filepath.Join(root, ".mlsense.yml"), tt.content)

			_, err := Load(context.Background(), hermetic(root))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), ".mlsense.yml", "error names the offending file")
		})
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, hermetic(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeConfig(t, filepath.Join(root, ".mlsense.yml"), `
rules:
  ML001:
    severity: warning
  schema-children:
    severity: error
  no-such-rule:
    enabled: false
`)

	result, err := Load(context.Background(), hermetic(root))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "duplicate rule configuration")
	assert.Contains(t, result.Warnings[1], `unknown rule "no-such-rule"`)
}

func TestLoadFromLookup(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"MLSENSE_SCHEMA":        "/etc/schema.yaml",
		"MLSENSE_LOG_LEVEL":     "debug",
		"MLSENSE_DOCUMENTATION": "none",
		"MLSENSE_JOBS":          "4",
		"MLSENSE_IGNORE":        "vendor/**, build/**",
	}

	cfg := config.NewConfig()
	require.NoError(t, loadFromLookup(cfg, func(key string) string { return env[key] }))

	assert.Equal(t, "/etc/schema.yaml", cfg.Schema)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "none", cfg.Completion.Documentation)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, []string{"vendor/**", "build/**"}, cfg.Ignore)

	err := loadFromLookup(cfg, func(key string) string {
		if key == "MLSENSE_JOBS" {
			return "many"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MLSENSE_JOBS")
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Contains(t, vars, "MLSENSE_SCHEMA")
	assert.Contains(t, vars, "MLSENSE_LOG_LEVEL")
	assert.Contains(t, vars, "MLSENSE_DOCUMENTATION")
}

func TestMergeRules(t *testing.T) {
	t.Parallel()

	enabled := true
	warning := "warning"

	base := &config.Config{Rules: map[string]config.RuleConfig{
		"ML001": {Severity: &warning, Options: map[string]any{"a": 1}},
	}}
	override := &config.Config{Rules: map[string]config.RuleConfig{
		"ML001": {Enabled: &enabled, Options: map[string]any{"b": 2}},
		"ML002": {Enabled: &enabled},
	}}

	merged := MergeAll(base, override)

	ml001 := merged.Rules["ML001"]
	require.NotNil(t, ml001.Severity)
	assert.Equal(t, "warning", *ml001.Severity)
	require.NotNil(t, ml001.Enabled)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, ml001.Options)
	assert.Contains(t, merged.Rules, "ML002")
	assert.Len(t, base.Rules["ML001"].Options, 1, "base options are not mutated")
}
