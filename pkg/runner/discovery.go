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

// matcher holds the compiled include and exclude patterns of a run.
type matcher struct {
	workDir    string
	extensions []string
	include    []glob.Glob
	exclude    []glob.Glob
}

func newMatcher(workDir string, opts Options) (*matcher, error) {
	m := &matcher{workDir: workDir}
	for _, ext := range opts.effectiveExtensions() {
		m.extensions = append(m.extensions, strings.ToLower(ext))
	}

	var err error
	if m.include, err = compileGlobs(opts.IncludeGlobs); err != nil {
		return nil, err
	}
	if m.exclude, err = compileGlobs(opts.ExcludeGlobs); err != nil {
		return nil, err
	}
	return m, nil
}

// compileGlobs compiles patterns with '/' as the separator, so "*" stays
// within one path segment and "**" crosses segments.
func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// relative returns path relative to the working directory, with forward
// slashes.
func (m *matcher) relative(path string) string {
	rel, err := filepath.Rel(m.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// excluded reports whether any exclude pattern matches the path or its
// base name.
func (m *matcher) excluded(path string) bool {
	rel := m.relative(path)
	base := filepath.Base(path)
	return slices.ContainsFunc(m.exclude, func(g glob.Glob) bool {
		return g.Match(rel) || g.Match(base)
	})
}

// matches reports whether a regular file should be processed.
func (m *matcher) matches(path string) bool {
	if !slices.Contains(m.extensions, strings.ToLower(filepath.Ext(path))) {
		return false
	}
	if m.excluded(path) {
		return false
	}
	if len(m.include) == 0 {
		return true
	}
	rel := m.relative(path)
	return slices.ContainsFunc(m.include, func(g glob.Glob) bool {
		return g.Match(rel)
	})
}

// Discover finds Markdown files matching opts. It returns sorted,
// de-duplicated absolute paths. Named files are checked against the
// extension and glob filters like discovered ones.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m, err := newMatcher(workDir, opts)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
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
			if m.matches(absPath) {
				files = append(files, absPath)
			}
			continue
		}

		found, err := walkDirectory(ctx, absPath, m, opts.FollowSymlinks, map[string]bool{})
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

// walkDirectory returns the matching files under root. Hidden files and
// directories are skipped, as are unreadable entries and broken symlinks.
// Followed symlink targets are recorded in visited so that link cycles
// terminate.
func walkDirectory(ctx context.Context, root string, m *matcher, followSymlinks bool, visited map[string]bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || (path != root && m.excluded(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			if target.IsDir() {
				if !followSymlinks {
					return nil
				}
				realPath, err := filepath.EvalSymlinks(path)
				if err != nil || visited[realPath] {
					return nil //nolint:nilerr // Unresolvable symlinks are skipped.
				}
				visited[realPath] = true
				// WalkDir does not follow the link itself, so walk its target.
				sub, err := walkDirectory(ctx, realPath, m, followSymlinks, visited)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if m.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}
	return files, nil
}
