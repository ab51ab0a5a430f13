package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testforge.dev/pkg/testforge/internal/model"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func collectWalked(t *testing.T, root string, exts, exclude []string) []string {
	t.Helper()

	adapter := NewLocalSourceFSAdapter()

	var seen []string

	err := adapter.WalkSources(m.Path(root), exts, exclude, func(_, rel m.Path) error {
		seen = append(seen, filepath.ToSlash(string(rel)))
		return nil
	})
	require.NoError(t, err)

	return seen
}

func TestWalkSources_VisitsEveryMatchingFileOnce(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":        "a",
		"b.py":        "b",
		"sub/c.py":    "c",
		"sub/d.txt":   "d",
		"deep/e/f.py": "f",
	})

	seen := collectWalked(t, root, []string{".py"}, nil)

	counts := make(map[string]int)
	for _, rel := range seen {
		counts[rel]++
	}

	assert.Len(t, seen, 4)

	for _, want := range []string{"a.py", "b.py", "sub/c.py", "deep/e/f.py"} {
		assert.Equal(t, 1, counts[want], "file %s visited exactly once", want)
	}

	assert.Zero(t, counts["sub/d.txt"], "non-source files are skipped silently")
}

func TestWalkSources_ExtensionMatchIsCaseInsensitive(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.PY": "a",
		"b.py": "b",
	})

	seen := collectWalked(t, root, []string{".py"}, nil)
	assert.Len(t, seen, 2)
}

func TestWalkSources_SkipsGeneratedAndVendorDirs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":                "a",
		"tests/test_a.py":     "t",
		"docs/conf.py":        "d",
		"__pycache__/a.pyc":   "p",
		".venv/lib/thing.py":  "v",
		".git/hooks/thing.py": "g",
	})

	seen := collectWalked(t, root, []string{".py"}, nil)
	assert.Equal(t, []string{"a.py"}, seen)
}

func TestWalkSources_ExcludePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":          "a",
		"skip_me.py":    "s",
		"sub/skip_x.py": "s",
		"sub/keep.py":   "k",
	})

	seen := collectWalked(t, root, []string{".py"}, []string{`skip_`})

	assert.ElementsMatch(t, []string{"a.py", "sub/keep.py"}, seen)
}

func TestWalkSources_SkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := writeTree(t, map[string]string{
		"a.py":          "a",
		"locked/b.py":   "b",
		"readable/c.py": "c",
	})

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	seen := collectWalked(t, root, []string{".py"}, nil)
	assert.ElementsMatch(t, []string{"a.py", "readable/c.py"}, seen)
}

func TestWalkSources_InvalidExcludePattern(t *testing.T) {
	root := writeTree(t, map[string]string{"a.py": "a"})

	adapter := NewLocalSourceFSAdapter()

	err := adapter.WalkSources(m.Path(root), []string{".py"}, []string{"("}, func(_, _ m.Path) error {
		t.Fatal("callback must not run with a broken pattern")
		return nil
	})

	require.Error(t, err)
}

func TestWalkSources_MissingRoot(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	err := adapter.WalkSources(m.Path(filepath.Join(t.TempDir(), "nope")), []string{".py"}, nil, func(_, _ m.Path) error {
		t.Fatal("callback must not run for a missing root")
		return nil
	})

	require.Error(t, err)
}

func TestLocalSourceFSAdapter_WriteAndRead(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	path := adapter.JoinPath(dir, "out", "artifact.py")
	require.NoError(t, adapter.EnsureDir(adapter.JoinPath(dir, "out")))
	require.NoError(t, adapter.WriteFile(path, []byte("content"), 0o644))

	got, err := adapter.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(got))

	info, err := adapter.FileInfo(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestLocalSourceFSAdapter_EnsureDirIsIdempotent(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	dir := adapter.JoinPath(t.TempDir(), "nested", "deep")

	require.NoError(t, adapter.EnsureDir(dir))
	require.NoError(t, adapter.EnsureDir(dir))

	info, err := adapter.FileInfo(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalSourceFSAdapter_RelPath(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	rel, err := adapter.RelPath("/project", "/project/sub/file.py")
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("sub", "file.py")), rel)
}
