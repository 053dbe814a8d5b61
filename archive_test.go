package txfs

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readArchive returns the members of a zip file with their content
func readArchive(t *testing.T, name string) (map[string]string, []uint16) {
	t.Helper()
	r, err := zip.OpenReader(name)
	require.NoError(t, err)
	defer r.Close()

	files := make(map[string]string)
	var methods []uint16
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(data)
		methods = append(methods, f.Method)
	}
	return files, methods
}

// TestSaveToZip tests exporting loaded and modified files into an archive
func TestSaveToZip(t *testing.T) {
	origin := t.TempDir()
	writeTree(t, afero.NewOsFs(), origin, map[string]string{
		"sym/r/symbol.lp": "resistor",
		"removed.txt":     "removed",
		".git/HEAD":       "ref",
	})

	tfs := newTestFS(t)
	require.NoError(t, tfs.LoadFromDirectory(origin))
	require.NoError(t, tfs.Remove("removed.txt"))
	require.NoError(t, tfs.WriteBinary("library.yaml", []byte("name: base")))

	target := filepath.Join(t.TempDir(), "lib.zip")
	require.NoError(t, tfs.SaveToZip(target))

	files, methods := readArchive(t, target)
	assert.Equal(t, map[string]string{
		"library.yaml":    "name: base",
		"sym/r/symbol.lp": "resistor",
	}, files)
	for _, m := range methods {
		assert.Equal(t, zip.Deflate, m)
	}

	// saving again overwrites the archive
	require.NoError(t, tfs.Remove("library.yaml"))
	require.NoError(t, tfs.SaveToZip(target))
	files, _ = readArchive(t, target)
	assert.Len(t, files, 1)
}

// TestSaveToZipStored tests archives without compression
func TestSaveToZipStored(t *testing.T) {
	tfs := newTestFS(t, WithArchiveCompression(zip.Store))
	require.NoError(t, tfs.WriteBinary("a/b.txt", []byte("b")))
	require.NoError(t, tfs.WriteBinary("empty", nil))

	target := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, tfs.SaveToZip(target))

	files, methods := readArchive(t, target)
	assert.Equal(t, map[string]string{"a/b.txt": "b", "empty": ""}, files)
	assert.Equal(t, []uint16{zip.Store, zip.Store}, methods)
}

// TestSaveToZipInvalidTarget tests that an unwritable target fails with ErrIO
func TestSaveToZipInvalidTarget(t *testing.T) {
	tfs := newTestFS(t)
	err := tfs.SaveToZip(filepath.Join(t.TempDir(), "missing", "dir", "out.zip"))
	assert.ErrorIs(t, err, ErrIO)
}
