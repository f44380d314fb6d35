package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds documents matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m, err := newMatcher(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if m.matchesFile(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := m.walkDirectory(ctx, absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	slices.Sort(files)

	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// pattern is a compiled glob. Patterns without a separator also match
// against the base name alone, so "*.bak" skips backups at any depth.
type pattern struct {
	full     glob.Glob
	baseOnly bool
}

func (p pattern) match(relPath string) bool {
	if p.full.Match(relPath) {
		return true
	}
	return p.baseOnly && p.full.Match(filepath.Base(relPath))
}

type matcher struct {
	workDir    string
	extensions []string
	include    []pattern
	exclude    []pattern
	follow     bool
}

func newMatcher(workDir string, opts Options) (*matcher, error) {
	include, err := compilePatterns(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}
	return &matcher{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		include:    include,
		exclude:    exclude,
		follow:     opts.FollowSymlinks,
	}, nil
}

func compilePatterns(globs []string) ([]pattern, error) {
	var out []pattern
	for _, g := range globs {
		g = filepath.ToSlash(g)
		variants := []string{g}
		// "**/x" should also match "x" at the top level.
		if rest, ok := strings.CutPrefix(g, "**/"); ok {
			variants = append(variants, rest)
		}
		for _, v := range variants {
			compiled, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("compile glob %q: %w", g, err)
			}
			out = append(out, pattern{full: compiled, baseOnly: !strings.Contains(v, "/")})
		}
	}
	return out, nil
}

func (m *matcher) rel(path string) string {
	relPath, err := filepath.Rel(m.workDir, path)
	if err != nil {
		relPath = path
	}
	return filepath.ToSlash(relPath)
}

// walkDirectory recursively walks a directory and returns matching documents.
func (m *matcher) walkDirectory(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			// Skip hidden directories (except root).
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && m.excludedDir(m.rel(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // inaccessible symlink targets are skipped
			}
			if info.IsDir() {
				if !m.follow {
					return nil
				}
				// Walk the target; WalkDir uses Lstat on its root.
				subFiles, err := m.walkDirectory(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if m.matchesFile(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// matchesFile checks if a file path matches the inclusion criteria.
func (m *matcher) matchesFile(path string) bool {
	if !hasMatchingExtension(path, m.extensions) {
		return false
	}

	relPath := m.rel(path)
	if matchesAny(relPath, m.exclude) {
		return false
	}

	if len(m.include) > 0 && !matchesAny(relPath, m.include) {
		return false
	}

	return true
}

// excludedDir reports whether a directory and everything below it is excluded.
// "vendor/**" matches "vendor/" because ** also matches the empty string.
func (m *matcher) excludedDir(relPath string) bool {
	return matchesAny(relPath, m.exclude) || matchesAny(relPath+"/", m.exclude)
}

func matchesAny(relPath string, patterns []pattern) bool {
	return slices.ContainsFunc(patterns, func(p pattern) bool { return p.match(relPath) })
}

// hasMatchingExtension checks if the file has a matching extension.
func hasMatchingExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}
