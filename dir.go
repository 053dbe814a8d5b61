package txfs

import (
	"strings"
)

// relativeTo returns the part of name below dir. Both are cleaned relative
// paths; dir is matched case-insensitively. The root dir contains everything.
func relativeTo(name, dir string) (string, bool) {
	if dir == "" {
		return name, true
	}
	if len(name) <= len(dir) || name[len(dir)] != '/' || !strings.EqualFold(name[:len(dir)], dir) {
		return "", false
	}
	return name[len(dir)+1:], true
}

// ListSubdirectories returns the names of the directories directly below p.
// Directories only exist implicitly through the files they contain.
func (t *TransactionalFileSystem) ListSubdirectories(p string) ([]string, error) {
	p = cleanPath(p)
	names := make(map[string]struct{})
	for name := range t.files {
		rest, ok := relativeTo(name, p)
		if !ok {
			continue
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			names[rest[:i]] = struct{}{}
		}
	}
	return sortedNames(names), nil
}

// ListFiles returns the names of the files directly inside p which match at
// least one of the filters
func (t *TransactionalFileSystem) ListFiles(p string, filters ...string) ([]string, error) {
	p = cleanPath(p)
	names := make(map[string]struct{})
	for name := range t.files {
		rest, ok := relativeTo(name, p)
		if !ok || strings.IndexByte(rest, '/') >= 0 {
			continue
		}
		match, err := matchFilters(rest, filters)
		if err != nil {
			return nil, err
		}
		if match {
			names[rest] = struct{}{}
		}
	}
	return sortedNames(names), nil
}
