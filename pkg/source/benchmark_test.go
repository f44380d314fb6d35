package source_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/mlsense/pkg/source"
)

func BenchmarkElementAtOffsetWithContext(b *testing.B) {
	src := strings.Repeat("<section title=\"x\">\n  <p>text</p>\n</section>\n", 200)
	obj := source.New(src)
	b.ResetTimer()
	for i := range b.N {
		obj.ElementAtOffsetWithContext(i % len(src))
	}
}

func BenchmarkSetSourceReparse(b *testing.B) {
	src := strings.Repeat("<a><b/></a>\n", 200)
	obj := source.New(src)
	b.ResetTimer()
	for i := range b.N {
		if i%2 == 0 {
			obj.SetSource(src + " ")
		} else {
			obj.SetSource(src)
		}
		obj.Root()
	}
}
