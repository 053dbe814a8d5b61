package txfs

import "strings"

// pathIndex tracks the case-folded paths of all logical files and the
// directories they imply. It answers conflict queries without scanning every
// entry of the overlay.
type pathIndex struct {
	files map[string]int // folded file path -> number of files with that folded path
	dirs  map[string]int // folded directory path -> number of files below it
}

// newPathIndex creates an empty index
func newPathIndex() *pathIndex {
	return &pathIndex{
		files: make(map[string]int),
		dirs:  make(map[string]int),
	}
}

// add registers a file path and all of its parent directories
func (ix *pathIndex) add(p string) {
	folded := foldPath(p)
	ix.files[folded]++
	forEachParent(folded, func(dir string) {
		ix.dirs[dir]++
	})
}

// remove unregisters a file path previously passed to add
func (ix *pathIndex) remove(p string) {
	folded := foldPath(p)
	if ix.files[folded] == 0 {
		return
	}
	decrement(ix.files, folded)
	forEachParent(folded, func(dir string) {
		decrement(ix.dirs, dir)
	})
}

// conflicts reports whether a new file at p would collide with an existing
// file or directory. This is the case if p itself is a file or directory, or
// if any parent of p is a file.
func (ix *pathIndex) conflicts(p string) bool {
	folded := foldPath(p)
	if ix.files[folded] > 0 || ix.dirs[folded] > 0 {
		return true
	}
	conflict := false
	forEachParent(folded, func(dir string) {
		if ix.files[dir] > 0 {
			conflict = true
		}
	})
	return conflict
}

// clear removes all entries
func (ix *pathIndex) clear() {
	ix.files = make(map[string]int)
	ix.dirs = make(map[string]int)
}

// forEachParent calls fn for every proper parent directory of p, from the
// outermost to the innermost. The root is not included.
func forEachParent(p string, fn func(dir string)) {
	for i := strings.IndexByte(p, '/'); i >= 0; {
		fn(p[:i])
		next := strings.IndexByte(p[i+1:], '/')
		if next < 0 {
			break
		}
		i += next + 1
	}
}

func decrement(m map[string]int, key string) {
	if m[key] <= 1 {
		delete(m, key)
		return
	}
	m[key]--
}
