package source_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mlsense/pkg/dast"
	"github.com/yaklabco/mlsense/pkg/parser"
	"github.com/yaklabco/mlsense/pkg/source"
)

const ambiguous = `<a name="x"><b name="y"><c name="z"/></b></a><d name="y"/>`

func offsetOf(t *testing.T, src, needle string) int {
	t.Helper()
	i := strings.Index(src, needle)
	require.GreaterOrEqual(t, i, 0, "%q not in source", needle)
	return i
}

func TestReferentAtOffset_Ambiguity(t *testing.T) {
	t.Parallel()

	obj := source.New(ambiguous)
	inC := offsetOf(t, ambiguous, "<c") + 1
	inD := offsetOf(t, ambiguous, "<d") + 1

	assert.Nil(t, obj.ReferentAtOffset(inD, "y"))

	b := obj.ReferentAtOffset(inC, "y")
	require.NotNil(t, b)
	assert.Equal(t, "b", b.Name)

	c := obj.ReferentAtOffset(inD, "z")
	require.NotNil(t, c)
	assert.Equal(t, "c", c.Name)

	assert.Nil(t, obj.ReferentAtOffset(inC, "missing"))
}

func TestNamedDescendant(t *testing.T) {
	t.Parallel()

	obj := source.New(ambiguous)
	a := obj.ElementAtOffset(1)
	require.NotNil(t, a)

	require.NotNil(t, obj.NamedDescendant(a, "z"))
	assert.Nil(t, obj.NamedDescendant(a, "x"), "an element is not its own descendant")
	assert.Nil(t, obj.NamedDescendant(obj.Root(), "y"))
	assert.NotNil(t, obj.NamedDescendant(obj.Root(), "x"))
}

func TestAccess_FloodsToEveryAncestor(t *testing.T) {
	t.Parallel()

	obj := source.New(ambiguous)
	a := obj.ElementAtOffset(1)
	require.NotNil(t, a)

	names := func(list []source.NamedElement) []string {
		out := make([]string, 0, len(list))
		for _, ne := range list {
			out = append(out, ne.Name)
		}
		return out
	}

	assert.Equal(t, []string{"y", "z"}, names(obj.Access(a)))
	assert.Equal(t, []string{"x", "y", "z", "y"}, names(obj.Access(obj.Root())))
}

func macroAt(t *testing.T, obj *source.Object, offset int) *dast.Node {
	t.Helper()
	node := obj.NodeAtOffset(offset, source.Query{})
	require.NotNil(t, node)
	require.NotNil(t, node.Macro, "no macro at %d", offset)
	return node
}

func TestMacroReferentAtOffset(t *testing.T) {
	t.Parallel()

	src := `<g name="g"><p name="p"><q name="q"/></p></g>` +
		`<t>$g.p.q $g.p.nope $g.p[1].q $nope.p</t>`
	obj := source.New(src)

	tests := []struct {
		name       string
		macro      string
		element    string
		unresolved []string
	}{
		{"full chain", "$g.p.q", "q", nil},
		{"missing property", "$g.p.nope", "p", []string{"nope"}},
		{"indexed property stops", "$g.p[1].q", "g", []string{"p[1]", "q"}},
		{"unknown first segment", "$nope.p", "", []string{"nope", "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			needle := tt.macro + " "
			if tt.macro == "$nope.p" {
				needle = tt.macro + "<"
			}
			offset := offsetOf(t, src, needle)
			ref, err := obj.MacroReferentAtOffset(offset, macroAt(t, obj, offset))
			require.NoError(t, err)

			var unresolved []string
			for _, part := range ref.Unresolved {
				unresolved = append(unresolved, part.String())
			}
			assert.Equal(t, tt.unresolved, unresolved)

			if tt.element == "" {
				assert.Nil(t, ref.Node)
				return
			}
			require.NotNil(t, ref.Node)
			assert.Equal(t, tt.element, ref.Node.Name)
			assert.Equal(t, tt.unresolved == nil, ref.Resolved())
		})
	}
}

func TestMacroReferentAtOffset_Misuse(t *testing.T) {
	t.Parallel()

	obj := source.New(`<a name="a"/>$a[1].b`)
	res := parser.Parse(`$a[1].b`)
	indexed := res.Root.Children[0]

	_, err := obj.MacroReferentAtOffset(13, indexed)
	require.ErrorIs(t, err, source.ErrIndexedFirstSegment)

	_, err = obj.MacroReferentAtOffset(13, dast.NewText("x"))
	require.ErrorIs(t, err, source.ErrNotMacro)

	empty := &dast.Node{Kind: dast.NodeMacro, Macro: &dast.MacroAttrs{}}
	_, err = obj.MacroReferentAtOffset(13, empty)
	require.ErrorIs(t, err, source.ErrEmptyMacroPath)
}

func pathStrings(paths []source.Path) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, p.String())
	}
	return out
}

func TestMacroAddressableChildrenAtElement(t *testing.T) {
	t.Parallel()

	obj := source.New(ambiguous)
	a := obj.ElementAtOffset(1)
	require.NotNil(t, a)

	assert.Equal(t, []string{"y", "y.z", "z"}, pathStrings(obj.MacroAddressableChildrenAtElement(a)))
	assert.Equal(t, []string{"x", "x.y", "x.y.z", "x.z", "z"},
		pathStrings(obj.MacroAddressableChildrenAtElement(obj.Root())))
}

func TestAddressableNamesAtOffset(t *testing.T) {
	t.Parallel()

	obj := source.New(ambiguous)
	inC := offsetOf(t, ambiguous, "<c") + 1

	assert.Equal(t,
		[]string{"z", "y", "y.z", "x", "x.y", "x.y.z", "x.z"},
		pathStrings(obj.AddressableNamesAtOffset(inC)))
}

func TestMergeLeftUniquePrefixes(t *testing.T) {
	t.Parallel()

	left := []source.Path{{"a"}, {"a", "b"}}
	right := []source.Path{{"a"}, {"a", "c"}, {"b"}, {"b", "a"}, {"c"}}

	got := source.MergeLeftUniquePrefixes(left, right)
	assert.Equal(t, []string{"a", "a.b", "b", "b.a", "c"}, pathStrings(got))
	assert.Len(t, left, 2, "left is not modified")
}
