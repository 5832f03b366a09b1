package tree

import (
	"sort"
	"strings"
)

// PathSeparator joins path segments.
const PathSeparator = "."

// JoinPath appends key to path. The root path is "", so top-level keys are
// their own path.
func JoinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + PathSeparator + key
}

// SplitPath breaks a dot path into segments. The root path has none.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
