package txfs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// SaveToDirectory writes the logical file tree to dir. Files removed from the
// overlay are deleted from dir together with parent directories left empty.
// When dir is the origin, only modified files are written; any other target
// receives every logical file.
//
// The first failure aborts the save. Files written before it are kept.
func (t *TransactionalFileSystem) SaveToDirectory(dir string) error {
	target := normalizeDir(dir)
	// always create the root directory, even if the overlay is empty
	if err := t.fs.MkdirAll(target, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %w", ErrIO, target, err)
	}

	for _, p := range sortedNames(t.removed) {
		if err := t.removeFromTarget(target, p); err != nil {
			return err
		}
	}

	sameOrigin := t.originPath != "" && target == t.originPath
	written := 0
	for _, p := range t.Paths() {
		// unmodified files already exist in the origin
		if sameOrigin && t.files[p].state == unmodified {
			continue
		}
		data, err := t.ReadBinary(p)
		if err != nil {
			return err
		}
		if err := t.writeToTarget(target, p, data); err != nil {
			return err
		}
		written++
	}

	t.logger.Debug("saved filesystem to directory",
		zap.String("target", target), zap.Int("written", written), zap.Int("removed", len(t.removed)))
	return nil
}

// writeToTarget writes a single file below target, creating its parents
func (t *TransactionalFileSystem) writeToTarget(target, p string, data []byte) error {
	name := filepath.Join(target, filepath.FromSlash(p))
	if err := t.fs.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %w", ErrIO, filepath.Dir(name), err)
	}
	if err := afero.WriteFile(t.fs, name, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrIO, name, err)
	}
	return nil
}

// removeFromTarget deletes p below target if it is an existing file, then
// removes parent directories which became empty. Pruning stops at the first
// non-empty parent and never touches target itself.
func (t *TransactionalFileSystem) removeFromTarget(target, p string) error {
	name := filepath.Join(target, filepath.FromSlash(p))
	info, err := t.fs.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	if err := t.fs.Remove(name); err != nil {
		return fmt.Errorf("%w: failed to remove %s: %w", ErrIO, name, err)
	}

	prefix := target + string(filepath.Separator)
	for parent := filepath.Dir(name); strings.HasPrefix(parent, prefix); parent = filepath.Dir(parent) {
		empty, err := afero.IsEmpty(t.fs, parent)
		if err != nil || !empty {
			break
		}
		if err := t.fs.Remove(parent); err != nil {
			t.logger.Debug("could not remove empty directory", zap.String("dir", parent), zap.Error(err))
			break
		}
	}
	return nil
}
