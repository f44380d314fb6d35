package position_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/mlsense/pkg/position"
)

func benchSource() string {
	return strings.Repeat("<section title=\"x\">\n  <p>text</p>\n</section>\n", 500)
}

func BenchmarkNew(b *testing.B) {
	src := benchSource()
	b.ResetTimer()
	for range b.N {
		position.New(src)
	}
}

func BenchmarkOffsetToPosition(b *testing.B) {
	src := benchSource()
	idx := position.New(src)
	b.ResetTimer()
	for i := range b.N {
		idx.OffsetToPosition(i % len(src))
	}
}
