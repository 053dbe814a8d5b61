package txfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSaveToOrigin tests saving back to the loaded directory
func TestSaveToOrigin(t *testing.T) {
	origin := t.TempDir()
	osFs := afero.NewOsFs()
	writeTree(t, osFs, origin, map[string]string{
		"keep.txt":        "keep",
		"a/b/c.txt":       "deleted",
		"x/one.txt":       "deleted",
		"x/two.txt":       "stays",
		".git/HEAD":       "ref",
		"edit/change.txt": "old",
	})

	tfs := newTestFS(t)
	require.NoError(t, tfs.LoadFromDirectory(origin))
	require.NoError(t, tfs.Remove("a/b/c.txt"))
	require.NoError(t, tfs.Remove("x/one.txt"))
	require.NoError(t, tfs.WriteBinary("edit/change.txt", []byte("new")))
	require.NoError(t, tfs.WriteBinary("new/file.txt", []byte("created")))

	require.NoError(t, tfs.SaveToDirectory(origin))

	assert.Equal(t, map[string]string{
		"keep.txt":        "keep",
		"x/two.txt":       "stays",
		".git/HEAD":       "ref",
		"edit/change.txt": "new",
		"new/file.txt":    "created",
	}, readTree(t, osFs, origin))

	// empty parents are pruned, non-empty ones are not
	assert.NoDirExists(t, filepath.Join(origin, "a", "b"))
	assert.NoDirExists(t, filepath.Join(origin, "a"))
	assert.DirExists(t, filepath.Join(origin, "x"))
	assert.DirExists(t, origin)
}

// TestSaveToOriginSkipsUnmodified tests that unmodified files are not rewritten
func TestSaveToOriginSkipsUnmodified(t *testing.T) {
	origin := t.TempDir()
	writeTree(t, afero.NewOsFs(), origin, map[string]string{"a.txt": "a"})

	tfs := newTestFS(t)
	require.NoError(t, tfs.LoadFromDirectory(origin))

	// an unmodified file deleted behind our back is not resurrected
	require.NoError(t, os.Remove(filepath.Join(origin, "a.txt")))
	require.NoError(t, tfs.SaveToDirectory(origin))
	assert.NoFileExists(t, filepath.Join(origin, "a.txt"))
}

// TestSaveToOtherDirectory tests that a new target receives every file
func TestSaveToOtherDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/origin", map[string]string{
		"lib.yaml":       "lib",
		"sym/a/x.lp":     "a",
		"sym/b/x.lp":     "b",
		".cache/ignored": "ignored",
	})

	tfs := newTestFS(t, WithFs(fs))
	require.NoError(t, tfs.LoadFromDirectory("/origin"))
	require.NoError(t, tfs.Remove("sym/b/x.lp"))
	require.NoError(t, tfs.WriteBinary("sym/c/x.lp", []byte("c")))

	require.NoError(t, tfs.SaveToDirectory("/copy"))
	assert.Equal(t, map[string]string{
		"lib.yaml":   "lib",
		"sym/a/x.lp": "a",
		"sym/c/x.lp": "c",
	}, readTree(t, fs, "/copy"))

	// the origin is untouched
	assert.Len(t, readTree(t, fs, "/origin"), 4)
}

// TestSaveRemovesFromOtherDirectory tests that removals apply to any target
func TestSaveRemovesFromOtherDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/origin", map[string]string{"a/old.txt": "old", "b.txt": "b"})
	writeTree(t, fs, "/mirror", map[string]string{"a/old.txt": "old", "b.txt": "b", "extra.txt": "extra"})

	tfs := newTestFS(t, WithFs(fs))
	require.NoError(t, tfs.LoadFromDirectory("/origin"))
	require.NoError(t, tfs.Remove("a/old.txt"))

	require.NoError(t, tfs.SaveToDirectory("/mirror"))
	assert.Equal(t, map[string]string{"b.txt": "b", "extra.txt": "extra"}, readTree(t, fs, "/mirror"))
	exists, err := afero.DirExists(fs, "/mirror/a")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestSaveEmptyOverlay tests that the target directory is always created
func TestSaveEmptyOverlay(t *testing.T) {
	fs := afero.NewMemMapFs()
	tfs := newTestFS(t, WithFs(fs))

	require.NoError(t, tfs.SaveToDirectory("/empty/target"))
	exists, err := afero.DirExists(fs, "/empty/target")
	require.NoError(t, err)
	assert.True(t, exists)
}

// TestSaveFailsForUnreadableOrigin tests that a missing unmodified file aborts
// a save to a new target
func TestSaveFailsForUnreadableOrigin(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/origin", map[string]string{"a.txt": "a"})

	tfs := newTestFS(t, WithFs(fs))
	require.NoError(t, tfs.LoadFromDirectory("/origin"))
	require.NoError(t, fs.Remove("/origin/a.txt"))

	err := tfs.SaveToDirectory("/target")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestSaveRewrittenFile tests that writing a removed file again cancels the
// removal
func TestSaveRewrittenFile(t *testing.T) {
	origin := t.TempDir()
	osFs := afero.NewOsFs()
	writeTree(t, osFs, origin, map[string]string{"a.txt": "old", "b.txt": "b"})

	tfs := newTestFS(t)
	require.NoError(t, tfs.LoadFromDirectory(origin))
	require.NoError(t, tfs.Remove("a.txt"))
	assert.Contains(t, tfs.removed, "a.txt")

	require.NoError(t, tfs.WriteBinary("a.txt", []byte("new")))
	assert.NotContains(t, tfs.removed, "a.txt")
	assert.Empty(t, tfs.removed)
	assert.True(t, tfs.IsDirty())

	require.NoError(t, tfs.SaveToDirectory(origin))
	assert.Equal(t, map[string]string{"a.txt": "new", "b.txt": "b"}, readTree(t, osFs, origin))
	assert.True(t, tfs.IsDirty(), "saving keeps the modified state")
}

// TestSaveCaseOnlyRename tests that replacing a file by one whose name differs
// only in case leaves just the new spelling
func TestSaveCaseOnlyRename(t *testing.T) {
	origin := t.TempDir()
	osFs := afero.NewOsFs()
	writeTree(t, osFs, origin, map[string]string{"dir/a.txt": "old"})

	tfs := newTestFS(t)
	require.NoError(t, tfs.LoadFromDirectory(origin))
	require.NoError(t, tfs.Remove("dir/a.txt"))
	require.NoError(t, tfs.WriteBinary("dir/A.txt", []byte("new")))

	// the old spelling is still removed on save
	assert.Contains(t, tfs.removed, "dir/a.txt")
	assert.Equal(t, []string{"dir/A.txt"}, tfs.Paths())
	assert.True(t, tfs.IsDirty())

	require.NoError(t, tfs.SaveToDirectory(origin))
	assert.Equal(t, map[string]string{"dir/A.txt": "new"}, readTree(t, osFs, origin))
	assert.True(t, tfs.IsDirty())
}
