package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mlsense/pkg/config"
)

type stubRule struct {
	id   string
	name string
}

func (m *stubRule) ID() string                               { return m.id }
func (m *stubRule) Name() string                             { return m.name }
func (m *stubRule) Description() string                      { return "stub" }
func (m *stubRule) DefaultEnabled() bool                     { return true }
func (m *stubRule) DefaultSeverity() config.Severity         { return config.SeverityWarning }
func (m *stubRule) Tags() []string                           { return nil }
func (m *stubRule) Apply(*RuleContext) ([]Diagnostic, error) { return nil, nil }

func newStubRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(&stubRule{id: "ML002", name: "unclosed-element"})
	reg.Register(&stubRule{id: "ML001", name: "schema-children"})
	reg.RegisterAlias("allowed-children", "ML001")
	reg.RegisterAlias("dangling", "ML404")
	return reg
}

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	reg := newStubRegistry()

	tests := []struct {
		key    string
		wantID string
		wantOK bool
	}{
		{"ML001", "ML001", true},
		{"ml001", "ML001", true},
		{"schema-children", "ML001", true},
		{" Schema-Children ", "ML001", true},
		{"allowed-children", "ML001", true},
		{"ALLOWED-CHILDREN", "ML001", true},
		{"unclosed-element", "ML002", true},
		{"dangling", "", false},
		{"nonexistent", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			id, rule, ok := reg.Resolve(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			if tt.wantOK {
				require.NotNil(t, rule)
				assert.Equal(t, tt.wantID, rule.ID())
			}
		})
	}
}

func TestRegistry_GetVariants(t *testing.T) {
	t.Parallel()

	reg := newStubRegistry()

	got, ok := reg.Get("schema-children")
	require.True(t, ok)
	assert.Equal(t, "ML001", got.ID())

	got, ok = reg.GetByID("ml002")
	require.True(t, ok)
	assert.Equal(t, "unclosed-element", got.Name())

	_, ok = reg.GetByID("schema-children")
	assert.False(t, ok)

	got, ok = reg.GetByName("UNCLOSED-ELEMENT")
	require.True(t, ok)
	assert.Equal(t, "ML002", got.ID())

	_, ok = reg.GetByName("ML002")
	assert.False(t, ok)

	_, ok = reg.Get("allowed-children")
	assert.False(t, ok, "aliases only resolve through Resolve")
}

func TestRegistry_RulesSortedByID(t *testing.T) {
	t.Parallel()

	reg := newStubRegistry()

	rules := reg.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "ML001", rules[0].ID())
	assert.Equal(t, "ML002", rules[1].ID())
	assert.Equal(t, []string{"ML001", "ML002"}, reg.IDs())
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	t.Parallel()

	reg := newStubRegistry()
	reg.Register(&stubRule{id: "ML001", name: "schema-children"})

	assert.Len(t, reg.Rules(), 2)
}
