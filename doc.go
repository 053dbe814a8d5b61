/*
Package txfs provides virtual file-system views for loading, editing and
persisting trees of document files without callers knowing which store backs
them.

# Overview

Every store implements the FileSystem interface: list directories and files,
check existence, read and write whole files, remove files or directory trees
and, where possible, materialize a file to a real path on disk. All paths are
relative, use forward slashes and never start or end with a slash. The empty
path is the root.

# Stores

  - DiskFileSystem passes every call through to a real directory.
  - AbsFileSystem passes every call through to any absfs.FileSystem, for
    example an in-memory memfs.
  - TransactionalFileSystem keeps all changes in memory on top of an optional
    origin directory until they are saved to a directory or a zip archive.

# Refs

A Ref is a cheap view of a subtree of another FileSystem. It does not own or
copy anything; it only prefixes every path with its root before forwarding the
call. Refs check their filesystem on every call, so a Ref to a closed store
reports ErrInvalidReference instead of touching stale state.

	tfs, err := txfs.NewTransactionalFileSystem()
	if err != nil {
	    return err
	}
	defer tfs.Close()

	if err := tfs.LoadFromDirectory("/libs/base"); err != nil {
	    return err
	}

	symbols := txfs.NewRef(tfs).RefToDir("sym")
	for _, dir := range must(symbols.ListSubdirectories("")) {
	    data, err := symbols.ReadBinary(dir + "/symbol.lp")
	    ...
	}

# Transactions

A TransactionalFileSystem tracks each logical file as either unmodified (its
content still lives in the origin and is read on demand) or dirty (its content
is held in memory). Removing a file that came from the origin leaves a
tombstone so that saving back deletes it from disk. New files are rejected with
ErrConflict if their path collides with an existing file or directory, compared
case-insensitively so the tree stays valid on case-insensitive filesystems.

LoadFromDirectory only picks up regular files. Symbolic links, including links
to files, are not followed; they are logged and left out of the overlay.

SaveToDirectory writes only dirty files when saving back to the origin and all
files for any other target. SaveToZip writes every logical file into a single
archive.

# Error Handling

Errors wrap one of the sentinel errors ErrNotFound, ErrConflict,
ErrInvalidReference, ErrIO, ErrInvalidState or ErrReadOnly and can be checked
with errors.Is.
*/
package txfs
