// Package docstore implements the hierarchical JSON document store the portal
// keeps all of its records in. Records are addressed by slash separated paths
// and every write is a merge or a replacement of a subtree.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Store errors
var (
	ErrInvalidPath        = errors.New("invalid document path")
	ErrInvalidValue       = errors.New("value is not a JSON document")
	ErrTransactionAborted = errors.New("transaction aborted")
	ErrStoreClosed        = errors.New("document store is closed")
)

// TransactionFn receives the current value at a path (nil when absent) and
// returns the value to store. Returning ErrTransactionAborted leaves the
// path untouched.
type TransactionFn func(current any) (any, error)

// Store is a hierarchical key/value document store.
//
// Values are JSON shaped: map[string]any, []any, string, float64, bool.
// A nil value removes the path. Maps that lose their last child disappear.
type Store interface {
	// Get returns the subtree rooted at path, or nil when nothing is stored there.
	Get(ctx context.Context, path string) (any, error)
	// Set replaces the subtree at path with value.
	Set(ctx context.Context, path string, value any) error
	// Update merges fields into the map at path. Keys may be relative paths.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Push returns a fresh, time ordered child key under path. Nothing is written.
	Push(ctx context.Context, path string) (string, error)
	// Remove deletes the subtree at path.
	Remove(ctx context.Context, path string) error
	// Transaction atomically replaces the value at path with fn(current).
	Transaction(ctx context.Context, path string, fn TransactionFn) (any, error)
	Close() error
}

// Join builds a store path from its parts, ignoring empty parts.
func Join(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			segs = append(segs, p)
		}
	}
	return strings.Join(segs, "/")
}

// SplitPath normalizes a path and returns its segments. The root path
// ("" or "/") has no segments.
func SplitPath(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, nil
	}
	segs := strings.Split(path, "/")
	for _, s := range segs {
		if err := ValidateKey(s); err != nil {
			return nil, err
		}
	}
	return segs, nil
}

// ValidateKey reports whether s can be used as a single path segment.
func ValidateKey(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty segment", ErrInvalidPath)
	}
	if len(s) > 768 {
		return fmt.Errorf("%w: segment too long", ErrInvalidPath)
	}
	for _, r := range s {
		switch {
		case r == '$', r == '#', r == '[', r == ']', r == '/':
			return fmt.Errorf("%w: %q contains %q", ErrInvalidPath, s, r)
		case r < 0x20 || r == 0x7f:
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidPath, s)
		}
	}
	return nil
}

// NewPushKey returns a unique child key. Keys sort in creation order.
func NewPushKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate push key: %w", err)
	}
	return id.String(), nil
}

func canonical(segs []string) string {
	return strings.Join(segs, "/")
}

// expandUpdate turns a merge payload into absolute path -> value writes.
func expandUpdate(base []string, fields map[string]any) (map[string]any, error) {
	writes := make(map[string]any, len(fields))
	for k, v := range fields {
		rel, err := SplitPath(k)
		if err != nil {
			return nil, err
		}
		if len(rel) == 0 {
			return nil, fmt.Errorf("%w: empty update key", ErrInvalidPath)
		}
		full := append(append([]string{}, base...), rel...)
		nv, err := Normalize(v)
		if err != nil {
			return nil, err
		}
		writes[canonical(full)] = nv
	}
	// a write may not target a descendant of another write in the same update
	for p := range writes {
		for q := range writes {
			if p != q && strings.HasPrefix(q, p+"/") {
				return nil, fmt.Errorf("%w: overlapping update paths %q and %q", ErrInvalidPath, p, q)
			}
		}
	}
	return writes, nil
}
