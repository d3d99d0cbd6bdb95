// Package keypath resolves dotted key paths such as "meta.pagination.next"
// or "links.0.href" against decoded JSON values.
package keypath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPathNotFound is returned when a step of a path cannot be resolved.
var ErrPathNotFound = errors.New("path not found")

// Key is a single step of a path: an object member name, an array index,
// or a numeric component that may address either.
type Key struct {
	name    string
	index   int
	isIndex bool
}

// Name returns a key that only matches object members.
func Name(name string) Key {
	return Key{name: name}
}

// Index returns a key that addresses an array element. Objects are looked
// up by the decimal form of i.
func Index(i int) Key {
	return Key{name: strconv.Itoa(i), index: i, isIndex: true}
}

// String returns the key as it appears in a dotted path.
func (k Key) String() string {
	return k.name
}

// Path is an ordered sequence of keys.
type Path []Key

// Parse splits a dotted path into keys. Components made only of digits
// become index keys. An empty string yields the empty path.
func Parse(path string) Path {
	if path == "" {
		return Path{}
	}

	parts := strings.Split(path, ".")
	keys := make(Path, 0, len(parts))
	for _, part := range parts {
		if i, err := strconv.Atoi(part); err == nil && i >= 0 && isDigits(part) {
			keys = append(keys, Index(i))
			continue
		}
		keys = append(keys, Name(part))
	}
	return keys
}

// String joins the path back into dotted notation.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, k := range p {
		parts[i] = k.String()
	}
	return strings.Join(parts, ".")
}

// Get resolves the path against root.
func (p Path) Get(root any) (any, error) {
	return Get(root, p...)
}

// Get resolves keys against root by successive indexing. Zero keys return
// root unchanged.
func Get(root any, keys ...Key) (any, error) {
	current := root
	for depth, key := range keys {
		next, ok := step(current, key)
		if !ok {
			return nil, fmt.Errorf("%w: %q at %q", ErrPathNotFound, key.String(), Path(keys[:depth+1]).String())
		}
		current = next
	}
	return current, nil
}

func step(value any, key Key) (any, bool) {
	switch v := value.(type) {
	case map[string]any:
		child, ok := v[key.name]
		return child, ok
	case []any:
		if !key.isIndex || key.index < 0 || key.index >= len(v) {
			return nil, false
		}
		return v[key.index], true
	default:
		return nil, false
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
