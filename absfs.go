package txfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/absfs/absfs"
	"github.com/absfs/memfs"
)

// AbsFileSystem is a FileSystem backed by any absfs.FileSystem, for example an
// in-memory memfs. Like DiskFileSystem it is a plain pass-through.
type AbsFileSystem struct {
	fs       absfs.FileSystem
	root     string
	readOnly bool
	closed   bool
}

// NewAbsFileSystem returns a FileSystem rooted at root inside fsys
func NewAbsFileSystem(fsys absfs.FileSystem, root string, readOnly bool) *AbsFileSystem {
	return &AbsFileSystem{
		fs:       fsys,
		root:     cleanPath(root),
		readOnly: readOnly,
	}
}

// NewMemoryFileSystem returns an AbsFileSystem over a fresh in-memory store
func NewMemoryFileSystem() (*AbsFileSystem, error) {
	mfs, err := memfs.NewFS()
	if err != nil {
		return nil, fmt.Errorf("failed to create memory filesystem: %w", err)
	}
	return NewAbsFileSystem(mfs, "", false), nil
}

// Close detaches the filesystem. Refs pointing at it become invalid.
func (a *AbsFileSystem) Close() error {
	a.closed = true
	return nil
}

// Closed reports whether Close was called
func (a *AbsFileSystem) Closed() bool {
	return a.closed
}

// absPath converts a relative path to the absolute form absfs expects
func (a *AbsFileSystem) absPath(p string) string {
	return "/" + joinPath(a.root, cleanPath(p))
}

// PrettyPath returns the absolute path of p inside the absfs store
func (a *AbsFileSystem) PrettyPath(p string) string {
	return a.absPath(p)
}

// ListSubdirectories returns the subdirectories of p
func (a *AbsFileSystem) ListSubdirectories(p string) ([]string, error) {
	infos, err := a.readDir(p)
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

// ListFiles returns the files in p matching any of the filters
func (a *AbsFileSystem) ListFiles(p string, filters ...string) ([]string, error) {
	infos, err := a.readDir(p)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() {
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

func (a *AbsFileSystem) readDir(p string) ([]os.FileInfo, error) {
	dir, err := a.fs.Open(a.absPath(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrIO, a.absPath(p), err)
	}
	defer dir.Close()

	infos, err := dir.Readdir(-1)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %s: %w", ErrIO, a.absPath(p), err)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})
	return infos, nil
}

// Exists reports whether p is an existing file
func (a *AbsFileSystem) Exists(p string) bool {
	info, err := a.fs.Stat(a.absPath(p))
	return err == nil && !info.IsDir()
}

// ReadBinary reads p from the store
func (a *AbsFileSystem) ReadBinary(p string) ([]byte, error) {
	f, err := a.fs.Open(a.absPath(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, a.absPath(p))
		}
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrIO, a.absPath(p), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrIO, a.absPath(p), err)
	}
	return data, nil
}

// WriteBinary writes p, creating missing parent directories
func (a *AbsFileSystem) WriteBinary(p string, data []byte) error {
	if a.readOnly {
		return fmt.Errorf("%w: cannot write %s", ErrReadOnly, a.absPath(p))
	}
	name := a.absPath(p)
	if dir, _ := splitPath(name); dir != "" {
		if err := a.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create directory %s: %w", ErrIO, dir, err)
		}
	}

	f, err := a.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", ErrIO, name, err)
	}
	n, err := f.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrIO, name, err)
	}
	return nil
}

// MaterializeToDisk is not supported, the store is not necessarily on disk
func (a *AbsFileSystem) MaterializeToDisk(p string) (string, error) {
	return "", fmt.Errorf("%s cannot be materialized: %w", a.absPath(p), errors.ErrUnsupported)
}

// Remove deletes the file p if it exists
func (a *AbsFileSystem) Remove(p string) error {
	if a.readOnly {
		return fmt.Errorf("%w: cannot remove %s", ErrReadOnly, a.absPath(p))
	}
	if err := a.fs.Remove(a.absPath(p)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: failed to remove %s: %w", ErrIO, a.absPath(p), err)
	}
	return nil
}

// RemoveDirectoryRecursively deletes p and all of its content
func (a *AbsFileSystem) RemoveDirectoryRecursively(p string) error {
	if a.readOnly {
		return fmt.Errorf("%w: cannot remove %s", ErrReadOnly, a.absPath(p))
	}
	if err := a.fs.RemoveAll(a.absPath(p)); err != nil {
		return fmt.Errorf("%w: failed to remove %s: %w", ErrIO, a.absPath(p), err)
	}
	return nil
}
