package txfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DiskFileSystem is a FileSystem rooted at a real directory. Every operation
// maps directly to the host filesystem, nothing is buffered.
type DiskFileSystem struct {
	root     string
	readOnly bool
	base     *afero.BasePathFs
	closed   bool
}

// NewDiskFileSystem returns a DiskFileSystem rooted at root. The directory does
// not need to exist yet, it is created by the first write.
func NewDiskFileSystem(root string, readOnly bool) *DiskFileSystem {
	root = filepath.Clean(root)
	return &DiskFileSystem{
		root:     root,
		readOnly: readOnly,
		base:     afero.NewBasePathFs(afero.NewOsFs(), root).(*afero.BasePathFs),
	}
}

// Root returns the directory this filesystem is rooted at
func (d *DiskFileSystem) Root() string {
	return d.root
}

// ReadOnly reports whether modifications are rejected
func (d *DiskFileSystem) ReadOnly() bool {
	return d.readOnly
}

// Close detaches the filesystem. Refs pointing at it become invalid.
func (d *DiskFileSystem) Close() error {
	d.closed = true
	return nil
}

// Closed reports whether Close was called
func (d *DiskFileSystem) Closed() bool {
	return d.closed
}

// PrettyPath returns the native absolute path of p
func (d *DiskFileSystem) PrettyPath(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(cleanPath(p)))
}

// ListSubdirectories returns the subdirectories of p, including hidden ones
func (d *DiskFileSystem) ListSubdirectories(p string) ([]string, error) {
	infos, err := d.readDir(p)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

// ListFiles returns the regular files in p matching any of the filters
func (d *DiskFileSystem) ListFiles(p string, filters ...string) ([]string, error) {
	infos, err := d.readDir(p)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		ok, err := matchFilters(info.Name(), filters)
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

// readDir lists p sorted by name. A missing directory has no entries.
func (d *DiskFileSystem) readDir(p string) ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(d.base, cleanPath(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to list %s: %w", ErrIO, d.PrettyPath(p), err)
	}
	return infos, nil
}

// Exists reports whether p is an existing regular file
func (d *DiskFileSystem) Exists(p string) bool {
	info, err := d.base.Stat(cleanPath(p))
	return err == nil && info.Mode().IsRegular()
}

// ReadBinary reads p from disk
func (d *DiskFileSystem) ReadBinary(p string) ([]byte, error) {
	data, err := afero.ReadFile(d.base, cleanPath(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, d.PrettyPath(p))
		}
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrIO, d.PrettyPath(p), err)
	}
	return data, nil
}

// WriteBinary writes p, creating missing parent directories
func (d *DiskFileSystem) WriteBinary(p string, data []byte) error {
	if d.readOnly {
		return fmt.Errorf("%w: cannot write %s", ErrReadOnly, d.PrettyPath(p))
	}
	p = cleanPath(p)
	if dir, _ := splitPath(p); dir != "" {
		if err := d.base.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create directory %s: %w", ErrIO, d.PrettyPath(dir), err)
		}
	}
	if err := afero.WriteFile(d.base, p, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrIO, d.PrettyPath(p), err)
	}
	return nil
}

// MaterializeToDisk returns the canonical on-disk path of p
func (d *DiskFileSystem) MaterializeToDisk(p string) (string, error) {
	realPath, err := d.base.RealPath(cleanPath(p))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidState, p, err)
	}
	return realPath, nil
}

// Remove deletes the file p if it exists
func (d *DiskFileSystem) Remove(p string) error {
	if d.readOnly {
		return fmt.Errorf("%w: cannot remove %s", ErrReadOnly, d.PrettyPath(p))
	}
	if err := d.base.Remove(cleanPath(p)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: failed to remove %s: %w", ErrIO, d.PrettyPath(p), err)
	}
	return nil
}

// RemoveDirectoryRecursively deletes p and all of its content
func (d *DiskFileSystem) RemoveDirectoryRecursively(p string) error {
	if d.readOnly {
		return fmt.Errorf("%w: cannot remove %s", ErrReadOnly, d.PrettyPath(p))
	}
	if err := d.base.RemoveAll(cleanPath(p)); err != nil {
		return fmt.Errorf("%w: failed to remove %s: %w", ErrIO, d.PrettyPath(p), err)
	}
	return nil
}
