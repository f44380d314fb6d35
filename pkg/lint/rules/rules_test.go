package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/yaklabco/mlsense/pkg/config"
	"github.com/yaklabco/mlsense/pkg/lint"
	"github.com/yaklabco/mlsense/pkg/lint/rules"
	"github.com/yaklabco/mlsense/pkg/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()

	sch, err := schema.New([]schema.Element{
		{Name: "a", Top: true, Children: []string{"b"}},
		{Name: "b"},
		{Name: "c", Top: true},
	})
	require.NoError(t, err)
	return sch
}

func check(t *testing.T, src string, cfg *config.Config) *lint.FileResult {
	t.Helper()

	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	rules.RegisterAliases(registry)

	engine := lint.NewEngine(registry, testSchema(t))
	result, err := engine.LintFile(context.Background(), "doc.ml", []byte(src), cfg)
	require.NoError(t, err)
	require.Empty(t, result.RuleErrors)
	return result
}

func TestSchemaChildren_Boundary(t *testing.T) {
	t.Parallel()

	// <c> is legal at the root but not inside <a>.
	src := "<a>\n  <c x=\"1\">hi</c>\n</a>"
	result := check(t, src, nil)

	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, "ML001", d.RuleID)
	assert.Equal(t, "schema-children", d.RuleName)
	assert.Equal(t, config.SeverityError, d.Severity)
	assert.Equal(t, "doc.ml", d.FilePath)
	assert.Equal(t, "Element <c> is not allowed inside <a>.", d.Message)
	assert.Equal(t, 6, d.StartOffset)
	assert.Equal(t, 21, d.EndOffset)
	assert.Equal(t, `<c x="1">hi</c>`, src[d.StartOffset:d.EndOffset])

	pd := d.ToProtocol(result.Source.Index())
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 2},
		End:   protocol.Position{Line: 1, Character: 17},
	}, pd.Range)
	assert.Equal(t, protocol.DiagnosticSeverityError, pd.Severity)
	assert.Equal(t, lint.Source, pd.Source)
}

func TestSchemaChildren(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		messages []string
	}{
		{"empty document", "", nil},
		{"legal tree", "<a><b/></a><c/>", nil},
		{"names are case insensitive", "<A><B></B></A>", nil},
		{"not top level", "<b/>", []string{"Element <b> is not allowed at the root of the document."}},
		{"unknown element at root", "<zz/>", []string{"Element <zz> is not allowed at the root of the document."}},
		{"unknown parent rejects children", "<c><b/></c>", []string{"Element <b> is not allowed inside <c>."}},
		{"text and comments are ignored", "<a>text<!-- <c/> --></a>", nil},
		{"bare bracket is ignored", "<a><</a>", nil},
		{
			"every violation is reported in document order",
			"<b/><a><c/><b/><c/></a>",
			[]string{
				"Element <b> is not allowed at the root of the document.",
				"Element <c> is not allowed inside <a>.",
				"Element <c> is not allowed inside <a>.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := check(t, tt.input, nil)
			var got []string
			for _, d := range result.Diagnostics {
				got = append(got, d.Message)
			}
			assert.Equal(t, tt.messages, got)
		})
	}
}

func TestSchemaChildren_Suggestion(t *testing.T) {
	t.Parallel()

	result := check(t, "<a><c/></a>", nil)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "allowed here: b", result.Diagnostics[0].Suggestion)
}

func TestSchemaChildren_IgnoreOption(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules["ML001"] = config.RuleConfig{Options: map[string]any{"ignore": []any{"C"}}}

	result := check(t, "<b/><a><c/></a>", cfg)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "Element <b> is not allowed at the root of the document.", result.Diagnostics[0].Message)
}

func TestUnclosedElement(t *testing.T) {
	t.Parallel()

	enabled := true
	cfg := config.NewConfig()
	cfg.Rules["unclosed-tag"] = config.RuleConfig{Enabled: &enabled}

	tests := []struct {
		name     string
		input    string
		messages []string
	}{
		{"closed", "<a><b></b></a>", nil},
		{"self closing", "<c/>", nil},
		{"never closed", "<a><b/>", []string{"Element <a> is never closed."}},
		{"unterminated start tag", "<a x", []string{"Start tag of <a> is not terminated."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := check(t, tt.input, cfg)
			var got []string
			for _, d := range result.Diagnostics {
				if d.RuleID == "ML002" {
					got = append(got, d.Message)
				}
			}
			assert.Equal(t, tt.messages, got)
		})
	}
}

func TestUnclosedElement_DisabledByDefault(t *testing.T) {
	t.Parallel()

	result := check(t, "<a>", nil)
	assert.Empty(t, result.Diagnostics)
}

func TestRegisterAll(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	rules.RegisterAliases(registry)

	assert.Equal(t, []string{"ML001", "ML002"}, registry.IDs())

	id, rule, ok := registry.Resolve("allowed-children")
	require.True(t, ok)
	assert.Equal(t, "ML001", id)
	assert.Equal(t, "schema-children", rule.Name())

	_, ok = lint.DefaultRegistry.GetByName("schema-children")
	assert.True(t, ok, "package init registers with the default registry")
}
