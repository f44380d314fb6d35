package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mlsense/pkg/runner"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func abs(dir string, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, filepath.Join(dir, filepath.FromSlash(n)))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default extensions",
			opts: runner.Options{},
			want: []string{"a.ml", "docs/b.mlx", "docs/deep/c.ml", "vendor/v.ml"},
		},
		{
			name: "custom extensions are case insensitive",
			opts: runner.Options{Extensions: []string{".XML"}},
			want: []string{"docs/d.xml"},
		},
		{
			name: "exclude directory",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**"}},
			want: []string{"a.ml", "docs/b.mlx", "docs/deep/c.ml"},
		},
		{
			name: "exclude by base name anywhere",
			opts: runner.Options{ExcludeGlobs: []string{"c.ml"}},
			want: []string{"a.ml", "docs/b.mlx", "vendor/v.ml"},
		},
		{
			name: "double star prefix matches top level",
			opts: runner.Options{ExcludeGlobs: []string{"**/docs/**"}},
			want: []string{"a.ml", "vendor/v.ml"},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"docs/**"}},
			want: []string{"docs/b.mlx", "docs/deep/c.ml"},
		},
		{
			name: "single path",
			opts: runner.Options{Paths: []string{"docs"}},
			want: []string{"docs/b.mlx", "docs/deep/c.ml"},
		},
		{
			name: "overlapping paths are deduplicated",
			opts: runner.Options{Paths: []string{"docs", "docs/deep/c.ml", "."}},
			want: []string{"a.ml", "docs/b.mlx", "docs/deep/c.ml", "vendor/v.ml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFiles(t, dir, map[string]string{
				"a.ml":           "<a/>",
				"docs/b.mlx":     "<b/>",
				"docs/deep/c.ml": "<c/>",
				"docs/d.xml":     "<d/>",
				"vendor/v.ml":    "<v/>",
				".hidden/h.ml":   "<h/>",
				".h.ml":          "<h/>",
				"notes.txt":      "",
			})

			opts := tt.opts
			opts.WorkingDir = dir
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, abs(dir, tt.want...), files)
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"missing"},
	})
	require.Error(t, err)

	_, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"[unclosed"},
	})
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}
