package txfs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Ref is a lightweight view into another FileSystem, rooted at a relative
// path inside it. A Ref does not own the filesystem it points to; copying a
// Ref or deriving one for a subdirectory only concatenates strings.
//
// The zero Ref is invalid, as is a Ref whose filesystem has been closed.
// Operations on an invalid Ref are logged and return zero values along with
// ErrInvalidReference.
type Ref struct {
	fs   FileSystem
	root string
}

// NewRef returns a Ref to the root of fs
func NewRef(fs FileSystem) Ref {
	return Ref{fs: fs}
}

// NewRefAt returns a Ref to the directory root inside fs. The root must not end
// with a slash.
func NewRefAt(fs FileSystem, root string) Ref {
	if strings.HasSuffix(root, "/") {
		zap.L().Error("ref root must not end with a slash", zap.String("root", root))
	}
	return Ref{fs: fs, root: cleanPath(root)}
}

// Sub returns a Ref to relpath below the root of r
func (r Ref) Sub(relpath string) Ref {
	return Ref{fs: r.fs, root: r.absPath(relpath)}
}

// RefToDir returns a Ref to the subdirectory name. An empty name yields an
// invalid Ref.
func (r Ref) RefToDir(name string) Ref {
	if cleanPath(name) == "" {
		zap.L().Error("ref to directory requested without a name", zap.String("root", r.root))
		return Ref{}
	}
	return r.Sub(name)
}

// SubRefs returns a Ref for each immediate subdirectory
func (r Ref) SubRefs() ([]Ref, error) {
	names, err := r.ListSubdirectories("")
	if err != nil {
		return nil, err
	}
	refs := make([]Ref, 0, len(names))
	for _, name := range names {
		refs = append(refs, r.Sub(name))
	}
	return refs, nil
}

// Root returns the path of the view inside the underlying filesystem
func (r Ref) Root() string {
	return r.root
}

// FileSystem returns the underlying filesystem, nil for the zero Ref
func (r Ref) FileSystem() FileSystem {
	return r.fs
}

// Valid reports whether the underlying filesystem is set and not closed
func (r Ref) Valid() bool {
	if r.fs == nil {
		return false
	}
	if c, ok := r.fs.(closable); ok && c.Closed() {
		return false
	}
	return true
}

// check reports whether r is usable and logs the failed operation otherwise
func (r Ref) check(op string) bool {
	if r.Valid() {
		return true
	}
	zap.L().Error("operation called on a ref without filesystem",
		zap.String("op", op), zap.String("root", r.root), zap.Stack("stack"))
	return false
}

func (r Ref) invalid(op, p string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidReference, op, r.absPath(p))
}

func (r Ref) absPath(p string) string {
	return joinPath(r.root, cleanPath(p))
}

// PrettyPath forwards to the underlying filesystem
func (r Ref) PrettyPath(p string) string {
	if !r.check("PrettyPath") {
		return ""
	}
	return r.fs.PrettyPath(r.absPath(p))
}

// ListSubdirectories forwards to the underlying filesystem
func (r Ref) ListSubdirectories(p string) ([]string, error) {
	if !r.check("ListSubdirectories") {
		return nil, r.invalid("list", p)
	}
	return r.fs.ListSubdirectories(r.absPath(p))
}

// ListFiles forwards to the underlying filesystem
func (r Ref) ListFiles(p string, filters ...string) ([]string, error) {
	if !r.check("ListFiles") {
		return nil, r.invalid("list", p)
	}
	return r.fs.ListFiles(r.absPath(p), filters...)
}

// Exists forwards to the underlying filesystem
func (r Ref) Exists(p string) bool {
	if !r.check("Exists") {
		return false
	}
	return r.fs.Exists(r.absPath(p))
}

// ReadBinary forwards to the underlying filesystem
func (r Ref) ReadBinary(p string) ([]byte, error) {
	if !r.check("ReadBinary") {
		return nil, r.invalid("read", p)
	}
	return r.fs.ReadBinary(r.absPath(p))
}

// WriteBinary forwards to the underlying filesystem
func (r Ref) WriteBinary(p string, data []byte) error {
	if !r.check("WriteBinary") {
		return r.invalid("write", p)
	}
	return r.fs.WriteBinary(r.absPath(p), data)
}

// MaterializeToDisk forwards to the underlying filesystem
func (r Ref) MaterializeToDisk(p string) (string, error) {
	if !r.check("MaterializeToDisk") {
		return "", r.invalid("materialize", p)
	}
	return r.fs.MaterializeToDisk(r.absPath(p))
}

// Remove forwards to the underlying filesystem
func (r Ref) Remove(p string) error {
	if !r.check("Remove") {
		return r.invalid("remove", p)
	}
	return r.fs.Remove(r.absPath(p))
}

// RemoveDirectoryRecursively forwards to the underlying filesystem
func (r Ref) RemoveDirectoryRecursively(p string) error {
	if !r.check("RemoveDirectoryRecursively") {
		return r.invalid("remove", p)
	}
	return r.fs.RemoveDirectoryRecursively(r.absPath(p))
}
