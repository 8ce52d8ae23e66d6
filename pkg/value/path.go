package value

import (
	"strconv"
	"strings"
)

// Reserved structural keys. A write whose path contains any of these segments
// is dropped outright: bind paths are caller-controlled, and these are the
// keys that would let a write reach a structure's lineage instead of its data.
var reservedSegments = map[string]struct{}{
	"__proto__":   {},
	"prototype":   {},
	"constructor": {},
}

// Resolve walks a dot-separated path into v one key at a time. Map segments
// look up keys, list segments parse as indices. The second return is false
// the moment the walk leaves indexable territory: a primitive, a nil, a
// missing key, or an out-of-range index. Absence is a terminal, not an error.
func Resolve(v any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := v
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Write sets newVal at a dot-separated path inside root, creating intermediate
// maps as needed. It reports whether the write landed. Writes never go
// through a primitive, never grow a list (list segments must address an
// existing index), and are dropped whole when any segment is a reserved
// structural key. A root that is not a container is a no-op.
func Write(root any, path string, newVal any) bool {
	if path == "" {
		return false
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if _, reserved := reservedSegments[segment]; reserved {
			return false
		}
	}

	current := root
	for i, segment := range segments {
		last := i == len(segments)-1
		switch node := current.(type) {
		case map[string]any:
			if last {
				node[segment] = newVal
				return true
			}
			child, ok := node[segment]
			if !ok || !IsContainer(child) {
				created := make(map[string]any)
				node[segment] = created
				current = created
				continue
			}
			current = child
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return false
			}
			if last {
				node[idx] = newVal
				return true
			}
			if !IsContainer(node[idx]) {
				created := make(map[string]any)
				node[idx] = created
				current = created
				continue
			}
			current = node[idx]
		default:
			return false
		}
	}
	return false
}
