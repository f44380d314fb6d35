package source_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mlsense/pkg/source"
)

// cursor splits a source containing one '|' into the text and the offset
// the bar marks.
func cursor(t *testing.T, marked string) (string, int) {
	t.Helper()
	offset := strings.Index(marked, "|")
	require.GreaterOrEqual(t, offset, 0, "missing cursor marker in %q", marked)
	return marked[:offset] + marked[offset+1:], offset
}

func TestElementAtOffsetWithContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		marked  string
		element string
		pos     source.CursorPosition
	}{
		{"body text", "<a>te|xt</a>", "a", source.CursorBody},
		{"between tags", "<a>|</a>", "a", source.CursorBody},
		{"open tag name", "<ab|c></abc>", "abc", source.CursorOpenTagName},
		{"end of open tag name", "<abc|></abc>", "abc", source.CursorOpenTagName},
		{"close tag name", "<abc></ab|c>", "abc", source.CursorCloseTagName},
		{"attribute name", `<a na|me="x"/>`, "a", source.CursorAttributeName},
		{"attribute value", `<a name="x|"/>`, "a", source.CursorAttributeValue},
		{"space in open tag", `<a | name="x"/>`, "a", source.CursorOpenTag},
		{"before nested element", "<r> |<a/></r>", "r", source.CursorBody},
		{"before top level element", "|<a/>", "", source.CursorUnknown},
		{"bare bracket after body", "<a> <|", "a", source.CursorBody},
		{"unclosed child before parent close", "<a><b>   |</a>", "b", source.CursorBody},
		{"incomplete tag before parent close", "<a><b |</a>", "b", source.CursorOpenTag},
		{"name being typed at end", "<a><b|", "b", source.CursorOpenTagName},
		{"incomplete tag at end", "<a><b |", "b", source.CursorOpenTag},
		{"attribute name being typed at end", "<a><b x|", "b", source.CursorAttributeName},
		{"unclosed element at end", "<a>  |", "a", source.CursorBody},
		{"stray close start at end", "<a></|", "a", source.CursorBody},
		{"after closed element at end", "<r><a></a>|", "r", source.CursorBody},
		{"after everything closed", "<a></a>|", "", source.CursorUnknown},
		{"bare bracket at root", "<|", "", source.CursorUnknown},
		{"bare bracket right after open tag", "<aa><|", "aa", source.CursorBody},
		{"bare bracket after closed sibling", "<a/><|", "", source.CursorUnknown},
		{"bare bracket inside closed element", "<aa><|</aa>", "aa", source.CursorBody},
		{"root text", "hel|lo", "", source.CursorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, offset := cursor(t, tt.marked)
			obj := source.New(src)
			el, pos := obj.ElementAtOffsetWithContext(offset)

			assert.Equal(t, tt.pos.String(), pos.String())
			if tt.element == "" {
				assert.Nil(t, el)
				return
			}
			require.NotNil(t, el)
			assert.Equal(t, tt.element, el.Name)
		})
	}
}

func TestElementAtOffsetWithContext_OutOfRange(t *testing.T) {
	t.Parallel()

	obj := source.New("<a/>")
	for _, offset := range []int{-1, 5, 100} {
		el, pos := obj.ElementAtOffsetWithContext(offset)
		assert.Nil(t, el)
		assert.Equal(t, source.CursorUnknown, pos)
	}
}

func TestIsCompleteElement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src    string
		offset int
		want   source.Completeness
	}{
		{"<a></a>", 1, source.Completeness{TagComplete: true, Closed: true}},
		{"<a/>", 1, source.Completeness{TagComplete: true, Closed: true}},
		{"<a>", 1, source.Completeness{TagComplete: true, Closed: false}},
		{"<a </a>", 1, source.Completeness{TagComplete: false, Closed: true}},
		{"<a", 1, source.Completeness{}},
	}

	for _, tt := range tests {
		obj := source.New(tt.src)
		el := obj.ElementAtOffset(tt.offset)
		require.NotNil(t, el, tt.src)
		got, err := obj.IsCompleteElement(el)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.src)
	}

	obj := source.New("text")
	_, err := obj.IsCompleteElement(obj.Root())
	require.ErrorIs(t, err, source.ErrNotElement)
}

func TestElementTagRanges(t *testing.T) {
	t.Parallel()

	obj := source.New("<a>\n  <b/>\n</a>")

	a := obj.ElementAtOffset(1)
	require.NotNil(t, a)
	ranges, err := obj.ElementTagRanges(a)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, 0, ranges[0].Start.Offset)
	assert.Equal(t, 3, ranges[0].End.Offset)
	assert.Equal(t, 11, ranges[1].Start.Offset)
	assert.Equal(t, 3, ranges[1].Start.Line)
	assert.Equal(t, 15, ranges[1].End.Offset)

	b := obj.ElementAtOffset(7)
	require.NotNil(t, b)
	ranges, err = obj.ElementTagRanges(b)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, 6, ranges[0].Start.Offset)
	assert.Equal(t, 10, ranges[0].End.Offset)

	_, err = obj.ElementTagRanges(nil)
	require.ErrorIs(t, err, source.ErrNotElement)
}
