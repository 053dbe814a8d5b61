package txfs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultHiddenPrefix marks directories which are not loaded into the
// overlay, e.g. ".git" or ".autosave".
const DefaultHiddenPrefix = "."

type entryState uint8

const (
	// unmodified files exist in the origin directory and are read from there
	unmodified entryState = iota
	// dirty files carry their content in memory
	dirty
)

// entry is the content of a logical file
type entry struct {
	state entryState
	data  []byte
}

// TransactionalFileSystem is an in-memory overlay over an optional origin
// directory. Writes and removals are buffered in memory, unmodified files are
// read lazily from the origin. Nothing touches the host filesystem until the
// overlay is saved with SaveToDirectory or SaveToZip.
//
// A TransactionalFileSystem is not safe for concurrent use.
type TransactionalFileSystem struct {
	fs           afero.Fs
	logger       *zap.Logger
	hiddenPrefix string
	compression  uint16

	originPath string
	files      map[string]entry    // logical files
	loaded     map[string]struct{} // files present in the origin at load time
	removed    map[string]struct{} // loaded files deleted since, to be removed on save
	index      *pathIndex

	scratchDir string
	cleanup    runtime.Cleanup
	closed     bool
}

// Option is a functional option for configuring a TransactionalFileSystem
type Option func(*TransactionalFileSystem)

// WithFs sets the host filesystem used for the origin, the scratch directory
// and all exports. Defaults to the operating system's filesystem.
func WithFs(fs afero.Fs) Option {
	return func(t *TransactionalFileSystem) {
		t.fs = fs
	}
}

// WithLogger sets the logger. Defaults to the global zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *TransactionalFileSystem) {
		t.logger = logger
	}
}

// WithHiddenPrefix sets the name prefix of directories skipped while loading.
// An empty prefix loads all directories.
func WithHiddenPrefix(prefix string) Option {
	return func(t *TransactionalFileSystem) {
		t.hiddenPrefix = prefix
	}
}

// WithArchiveCompression sets the zip method used by SaveToZip, zip.Deflate by
// default
func WithArchiveCompression(method uint16) Option {
	return func(t *TransactionalFileSystem) {
		t.compression = method
	}
}

// scratchResource is everything needed to remove a scratch directory without
// holding on to its owner
type scratchResource struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

func (s scratchResource) remove() {
	if err := s.fs.RemoveAll(s.dir); err != nil {
		s.logger.Warn("could not remove scratch directory", zap.String("dir", s.dir), zap.Error(err))
	}
}

// NewTransactionalFileSystem creates an empty overlay without origin. The
// scratch directory is created immediately and removed by Close.
func NewTransactionalFileSystem(opts ...Option) (*TransactionalFileSystem, error) {
	t := &TransactionalFileSystem{
		fs:           afero.NewOsFs(),
		logger:       zap.L(),
		hiddenPrefix: DefaultHiddenPrefix,
		compression:  zip.Deflate,
		index:        newPathIndex(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.reset()

	dir, err := afero.TempDir(t.fs, "", "txfs-")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create scratch directory: %w", ErrIO, err)
	}
	t.scratchDir = dir
	// Removes the scratch directory if the owner never calls Close.
	t.cleanup = runtime.AddCleanup(t, scratchResource.remove, scratchResource{fs: t.fs, dir: dir, logger: t.logger})
	return t, nil
}

// Close removes the scratch directory. A failure to do so is logged only.
// Refs pointing at a closed filesystem become invalid.
func (t *TransactionalFileSystem) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.cleanup.Stop()
	scratchResource{fs: t.fs, dir: t.scratchDir, logger: t.logger}.remove()
	return nil
}

// Closed reports whether Close was called
func (t *TransactionalFileSystem) Closed() bool {
	return t.closed
}

// OriginPath returns the directory the overlay was loaded from, or "" if none
func (t *TransactionalFileSystem) OriginPath() string {
	return t.originPath
}

// ScratchDir returns the private temporary directory of this overlay
func (t *TransactionalFileSystem) ScratchDir() string {
	return t.scratchDir
}

// Paths returns all logical files in lexical order
func (t *TransactionalFileSystem) Paths() []string {
	paths := make([]string, 0, len(t.files))
	for p := range t.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// IsDirty reports whether the overlay differs from its origin
func (t *TransactionalFileSystem) IsDirty() bool {
	if len(t.removed) > 0 {
		return true
	}
	for _, e := range t.files {
		if e.state == dirty {
			return true
		}
	}
	return false
}

func (t *TransactionalFileSystem) reset() {
	t.originPath = ""
	t.files = make(map[string]entry)
	t.loaded = make(map[string]struct{})
	t.removed = make(map[string]struct{})
	t.index.clear()
}

// LoadFromDirectory discards all state and loads the file tree below dir.
// File contents are not read until they are needed. Directories whose name
// starts with the hidden prefix are skipped.
func (t *TransactionalFileSystem) LoadFromDirectory(dir string) error {
	t.reset()

	origin := normalizeDir(dir)
	isDir, err := afero.IsDir(t.fs, origin)
	if err != nil || !isDir {
		return fmt.Errorf("%w: the directory %q does not exist", ErrInvalidState, origin)
	}

	err = afero.Walk(t.fs, origin, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(origin, name)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		switch {
		case info.IsDir():
			if t.hiddenPrefix != "" && strings.HasPrefix(info.Name(), t.hiddenPrefix) {
				return filepath.SkipDir
			}
		case info.Mode().IsRegular():
			p := filepath.ToSlash(rel)
			t.files[p] = entry{state: unmodified}
			t.loaded[p] = struct{}{}
			t.index.add(p)
		default:
			t.logger.Warn("unknown file item", zap.String("path", name), zap.Stringer("mode", info.Mode()))
		}
		return nil
	})
	if err != nil {
		t.reset()
		return fmt.Errorf("%w: failed to load %s: %w", ErrIO, origin, err)
	}

	t.originPath = origin
	t.logger.Debug("loaded filesystem from directory",
		zap.String("origin", origin), zap.Int("files", len(t.files)))
	return nil
}

// PrettyPath returns the native path of p below the origin directory, or just
// the native form of p if there is no origin
func (t *TransactionalFileSystem) PrettyPath(p string) string {
	native := filepath.FromSlash(cleanPath(p))
	if t.originPath == "" {
		return native
	}
	return filepath.Join(t.originPath, native)
}

// Exists reports whether p is a logical file
func (t *TransactionalFileSystem) Exists(p string) bool {
	_, ok := t.files[cleanPath(p)]
	return ok
}

// ReadBinary returns the content of p. Modified files are served from memory,
// unmodified files are read from the origin on every call.
func (t *TransactionalFileSystem) ReadBinary(p string) ([]byte, error) {
	p = cleanPath(p)
	e, ok := t.files[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, t.PrettyPath(p))
	}
	if e.state == dirty {
		return bytes.Clone(e.data), nil
	}

	data, err := afero.ReadFile(t.fs, t.PrettyPath(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, t.PrettyPath(p))
		}
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrIO, t.PrettyPath(p), err)
	}
	return data, nil
}

// WriteBinary sets the content of p. Creating a new file fails with
// ErrConflict if a file or directory with the same path exists, compared
// case-insensitively. A nil buffer is stored as an empty file.
func (t *TransactionalFileSystem) WriteBinary(p string, data []byte) error {
	p = cleanPath(p)
	if p == "" {
		return fmt.Errorf("%w: cannot write to the root directory", ErrConflict)
	}
	if _, ok := t.files[p]; !ok {
		if t.index.conflicts(p) {
			return fmt.Errorf("%w: %s", ErrConflict, t.PrettyPath(p))
		}
		t.index.add(p)
	}

	content := make([]byte, len(data))
	copy(content, data)
	t.files[p] = entry{state: dirty, data: content}
	// the origin file is overwritten on save, no need to delete it first
	delete(t.removed, p)
	return nil
}

// MaterializeToDisk is not supported. Save the overlay with SaveToDirectory
// to get real files.
func (t *TransactionalFileSystem) MaterializeToDisk(p string) (string, error) {
	return "", fmt.Errorf("%s: save the filesystem to a directory first: %w", t.PrettyPath(p), errors.ErrUnsupported)
}

// Remove deletes p from the overlay. If p existed in the origin it is deleted
// from the target of the next SaveToDirectory.
func (t *TransactionalFileSystem) Remove(p string) error {
	p = cleanPath(p)
	if _, ok := t.files[p]; ok {
		delete(t.files, p)
		t.index.remove(p)
	}
	if _, ok := t.loaded[p]; ok {
		t.removed[p] = struct{}{}
	}
	return nil
}

// RemoveDirectoryRecursively removes every file equal to or below p
func (t *TransactionalFileSystem) RemoveDirectoryRecursively(p string) error {
	p = cleanPath(p)
	var matches []string
	for name := range t.files {
		if _, ok := relativeTo(name, p); ok || strings.EqualFold(name, p) {
			matches = append(matches, name)
		}
	}
	for _, name := range matches {
		if err := t.Remove(name); err != nil {
			return err
		}
	}
	return nil
}

// normalizeDir returns the absolute, cleaned form of a host directory
func normalizeDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}
