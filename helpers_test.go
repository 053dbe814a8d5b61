package txfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// newTestFS creates a TransactionalFileSystem which is closed when the test ends
func newTestFS(t *testing.T, opts ...Option) *TransactionalFileSystem {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	tfs, err := NewTransactionalFileSystem(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { tfs.Close() })
	return tfs
}

// writeTree creates the given files with their content below root
func writeTree(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0644))
	}
}

// readTree returns all regular files below root with their content
func readTree(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := afero.Walk(fs, root, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		data, err := afero.ReadFile(fs, name)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, name)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

// observeGlobalLogger replaces the global logger with one recording all
// entries at level or above until the test ends
func observeGlobalLogger(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	undo := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(undo)
	return logs
}
