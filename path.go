package txfs

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// cleanPath normalizes a relative path. The result never starts or ends with a
// slash, cannot escape the root through "..", and is "" for the root itself.
func cleanPath(p string) string {
	cleaned := path.Clean("/" + filepath.ToSlash(p))
	return strings.TrimPrefix(cleaned, "/")
}

// joinPath joins two cleaned relative paths
func joinPath(root, p string) string {
	switch {
	case root == "":
		return p
	case p == "":
		return root
	default:
		return root + "/" + p
	}
}

// splitPath returns the parent directory and the name of a cleaned path
func splitPath(p string) (dir, name string) {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

// foldPath returns the key used for case-insensitive path comparisons
func foldPath(p string) string {
	return strings.ToLower(p)
}

// matchFilters reports whether name matches at least one of the wildcard
// filters. An empty filter list matches every name.
func matchFilters(name string, filters []string) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}
	for _, filter := range filters {
		ok, err := doublestar.Match(filter, name)
		if err != nil {
			return false, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// sortedNames returns the keys of a name set in lexical order
func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
