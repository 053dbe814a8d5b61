package txfs

import (
	"errors"
)

var (
	// ErrNotFound is returned when a path has no content in the filesystem
	ErrNotFound = errors.New("file does not exist")
	// ErrConflict is returned when a new file would collide with an existing file or directory
	ErrConflict = errors.New("path exists already")
	// ErrInvalidReference is returned by a Ref without a live underlying filesystem
	ErrInvalidReference = errors.New("reference without filesystem")
	// ErrIO is returned when reading or writing the host filesystem or an archive fails
	ErrIO = errors.New("i/o failure")
	// ErrInvalidState is returned when an operation is not possible in the current state
	ErrInvalidState = errors.New("invalid state")
	// ErrReadOnly is returned when attempting to modify a read-only filesystem
	ErrReadOnly = errors.New("filesystem is read-only")
)

// FileSystem is the capability every backing store provides. All paths are
// relative to the root of the implementing instance and use forward slashes.
type FileSystem interface {
	// PrettyPath returns a human readable form of the path for diagnostics.
	// The result is not guaranteed to be a usable path.
	PrettyPath(p string) string
	// ListSubdirectories returns the names of the immediate subdirectories of p.
	ListSubdirectories(p string) ([]string, error)
	// ListFiles returns the names of the files directly inside p. If filters
	// are given, a name must match at least one of the wildcard patterns.
	ListFiles(p string, filters ...string) ([]string, error)
	// Exists reports whether p is an existing file.
	Exists(p string) bool
	// ReadBinary returns the content of p, or ErrNotFound.
	ReadBinary(p string) ([]byte, error)
	// WriteBinary creates or overwrites p.
	WriteBinary(p string, data []byte) error
	// MaterializeToDisk returns a real filesystem path holding the content of p,
	// for external tools which can only open literal files.
	MaterializeToDisk(p string) (string, error)
	// Remove deletes the file p. Removing a missing file is not an error.
	Remove(p string) error
	// RemoveDirectoryRecursively deletes p and everything below it.
	RemoveDirectoryRecursively(p string) error
}

// closable is implemented by stores whose lifetime may end before the refs
// pointing at them.
type closable interface {
	Closed() bool
}

// Compile-time checks
var (
	_ FileSystem = (*DiskFileSystem)(nil)
	_ FileSystem = (*AbsFileSystem)(nil)
	_ FileSystem = (*TransactionalFileSystem)(nil)
	_ FileSystem = Ref{}
)
