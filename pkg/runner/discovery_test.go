package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/runner"
)

// makeTree creates files (relative paths) under a fresh temp dir.
func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# "+f+"\n"), 0o644))
	}
	return dir
}

func relPaths(t *testing.T, dir string, files []string) []string {
	t.Helper()
	rel := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	return rel
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	layout := []string{
		"readme.md",
		"docs/guide.md",
		"docs/api.markdown",
		"docs/internal/notes.md",
		"vendor/lib/readme.md",
		".hidden/secret.md",
		"docs/.draft.md",
		"src/main.go",
		"notes.txt",
		"UPPER.MD",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults walk the working directory",
			want: []string{"UPPER.MD", "docs/api.markdown", "docs/guide.md", "docs/internal/notes.md", "readme.md", "vendor/lib/readme.md"},
		},
		{
			name: "exclude directory",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "vendor"}},
			want: []string{"UPPER.MD", "docs/api.markdown", "docs/guide.md", "docs/internal/notes.md", "readme.md"},
		},
		{
			name: "exclude by base name",
			opts: runner.Options{ExcludeGlobs: []string{"readme.md"}},
			want: []string{"UPPER.MD", "docs/api.markdown", "docs/guide.md", "docs/internal/notes.md"},
		},
		{
			name: "include restricts",
			opts: runner.Options{IncludeGlobs: []string{"docs/**"}},
			want: []string{"docs/api.markdown", "docs/guide.md", "docs/internal/notes.md"},
		},
		{
			name: "single star stays in one segment",
			opts: runner.Options{IncludeGlobs: []string{"docs/*.md"}},
			want: []string{"docs/guide.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".markdown"}},
			want: []string{"docs/api.markdown"},
		},
		{
			name: "explicit paths are de-duplicated",
			opts: runner.Options{Paths: []string{"docs", "docs/guide.md", "readme.md", "src/main.go"}},
			want: []string{"docs/api.markdown", "docs/guide.md", "docs/internal/notes.md", "readme.md"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := makeTree(t, layout...)
			opts := testCase.opts
			opts.WorkingDir = dir

			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, relPaths(t, dir, files))
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.md")

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"nope"}})
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid glob", func(t *testing.T) {
		t.Parallel()
		_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"[a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid glob")
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "root/a.md", "shared/b.md")
	root := filepath.Join(dir, "root")
	require.NoError(t, os.Symlink(filepath.Join(dir, "shared"), filepath.Join(root, "linked")))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(root, "broken.md")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, relPaths(t, root, files))

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Contains(t, relPaths(t, root, files), "a.md")
	assert.Contains(t, relPaths(t, dir, files), "shared/b.md")
}
