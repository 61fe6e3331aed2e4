package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arjunmahishi/repoctx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative slash paths) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func displayPaths(jobs []types.FileJob) []string {
	paths := make([]string, 0, len(jobs))
	for _, j := range jobs {
		paths = append(paths, j.DisplayPath)
	}
	return paths
}

func TestCollectDefaultIgnores(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.py":                      "print(1)",
		"src/app.ts":                   "export {}",
		"src/node_modules/lib/x.js":    "x",
		".git/HEAD":                    "ref",
		"bin/Debug/app.dll":            "MZ",
		"obj/project.assets.json":      "{}",
		"logs/server.log":              "boom",
		"appsettings.Development.json": "{}",
		"context_20240101_000000.txt":  "old",
		".env":                         "SECRET=1",
		"docs/README.md":               "# hi",
	})

	s, err := New(Config{Root: dir})
	require.NoError(t, err)

	jobs, errs, err := s.Collect(context.Background())
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.ElementsMatch(t, []string{"main.py", "src/app.ts", "docs/README.md"}, displayPaths(jobs))
}

func TestCollectCustomPatterns(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a/keep.cs":        "class A {}",
		"a/generated/x.cs": "class X {}",
		"b/skip.cs":        "class B {}",
		"b/notes.md":       "notes",
	})

	s, err := New(Config{
		Root:    dir,
		Ignore:  []string{"a/generated", "b/skip.cs"},
		Include: []string{"*.cs"},
	})
	require.NoError(t, err)

	jobs, _, err := s.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a/keep.cs"}, displayPaths(jobs))
}

func TestCollectDoublestarInclude(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/deep/nested/x.py": "x = 1",
		"src/y.py":             "y = 1",
		"tools/z.py":           "z = 1",
	})

	s, err := New(Config{Root: dir, Include: []string{"src/**/*.py"}})
	require.NoError(t, err)

	jobs, _, err := s.Collect(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/deep/nested/x.py", "src/y.py"}, displayPaths(jobs))
}

func TestCollectMarksOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"small.py": "x = 1",
		"large.py": "x = 1234567890",
	})

	s, err := New(Config{Root: dir, MaxBytes: 8})
	require.NoError(t, err)

	jobs, _, err := s.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	byPath := make(map[string]types.FileJob)
	for _, j := range jobs {
		byPath[j.DisplayPath] = j
	}
	assert.True(t, byPath["large.py"].Skipped)
	assert.Equal(t, int64(14), byPath["large.py"].Size)
	assert.False(t, byPath["small.py"].Skipped)
}

func TestCollectCancelled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.py": "", "b.py": ""})

	s, err := New(Config{Root: dir})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = s.Collect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCollectMissingRoot(t *testing.T) {
	s, err := New(Config{Root: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)

	_, _, err = s.Collect(context.Background())
	require.Error(t, err)
}

func TestNewRejectsInvalidPattern(t *testing.T) {
	_, err := New(Config{Ignore: []string{"[unclosed"}})
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestNewCopiesPatterns(t *testing.T) {
	ignore := []string{"*.tmp"}
	s, err := New(Config{Ignore: ignore})
	require.NoError(t, err)

	ignore[0] = "*.py"
	assert.True(t, s.Ignored("x.tmp"))
	assert.False(t, s.Ignored("x.py"))
}

func TestCollectSingle(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"pkg/svc.py": "def f(): pass"})

	s, err := New(Config{})
	require.NoError(t, err)

	job, err := s.CollectSingle(filepath.Join(dir, "pkg", "svc.py"))
	require.NoError(t, err)
	assert.Equal(t, "svc.py", job.DisplayPath)
	assert.Equal(t, int64(13), job.Size)

	_, err = s.CollectSingle(filepath.Join(dir, "pkg"))
	require.Error(t, err)
	_, err = s.CollectSingle(filepath.Join(dir, "nope.py"))
	require.Error(t, err)
}
