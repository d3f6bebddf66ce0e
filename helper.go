// File: lixenwraith/flagconf/helper.go
package flagconf

import (
	"fmt"
	"sort"
	"strings"
)

// splitPath breaks a dot-notation path into segments.
// An empty path or any empty segment ("a..b", ".a", "a.") is rejected.
func splitPath(path string) ([]string, error) {
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w in path %q", ErrEmptySegment, path)
		}
	}
	return segments, nil
}

// hasPath reports whether a value of any kind, nil included, is stored at the exact path.
func hasPath(nested map[string]any, path string) bool {
	_, found := getPath(nested, path)
	return found
}

// getPath returns the value stored at a dot-notation path.
func getPath(nested map[string]any, path string) (any, bool) {
	if nested == nil {
		return nil, false
	}

	segments := strings.Split(path, ".")
	current := nested

	for i, segment := range segments {
		value, exists := current[segment]
		if !exists {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}

		next, isMap := value.(map[string]any)
		if !isMap {
			return nil, false
		}
		current = next
	}

	return nil, false
}

// setPath sets a value in a nested map using a dot-notation path.
// Missing intermediate maps are created in segment order.
// Unlike setNestedValue it never replaces an existing leaf with a map.
func setPath(nested map[string]any, path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	current := nested
	for i, segment := range segments[:len(segments)-1] {
		next, exists := current[segment]
		if !exists {
			newMap := make(map[string]any)
			current[segment] = newMap
			current = newMap
			continue
		}

		nextMap, isMap := next.(map[string]any)
		if !isMap {
			return fmt.Errorf("%w: %q holds a value, cannot set %q",
				ErrPathConflict, strings.Join(segments[:i+1], "."), path)
		}
		current = nextMap
	}

	current[segments[len(segments)-1]] = value
	return nil
}

// setNestedValue sets a value in a nested map using a dot-notation path.
// If a segment exists but is not a map, it is overwritten by a new map.
// Used to rebuild trees from already validated flat paths.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for _, segment := range segments[:len(segments)-1] {
		if nextMap, isMap := current[segment].(map[string]any); isMap {
			current = nextMap
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// flattenMap converts a nested map[string]any to a flat map[string]any with dot-notation paths.
// Empty nested maps produce no entries.
func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + "." + key
		}

		if nestedMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// sortedKeys returns map keys in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// navigateToPath traverses nested map to reach the specified path
func navigateToPath(nested map[string]any, path string) any {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nested
	}

	value, found := getPath(nested, path)
	if !found {
		return nil
	}
	return value
}

// deepCopyMap copies nested maps and slices so the result shares no mutable state with the input.
func deepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return deepCopyMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
