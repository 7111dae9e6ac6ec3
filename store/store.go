// Package store defines the remote document-store boundary used by the
// mirror and the editor services.
// File: store/store.go
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable is returned for any write attempted while the backing store
// cannot be reached. Reads never fail; subscribers simply stop receiving
// updates.
var ErrUnavailable = errors.New("store unavailable")

// Store is the document-store boundary. Paths are either "<collection>/<id>"
// for collection records or a bare key for singleton documents.
//
// Subscribe registers fn against a top-level key ("posts", "siteSettings").
// fn receives the current value at the key immediately, then every subsequent
// change, in write order for that key. No ordering holds across different
// keys. The returned cancel func stops delivery; it is safe to call twice.
type Store interface {
	Subscribe(key string, fn func(value any)) (cancel func())

	// WriteFull replaces the entire value at path. A nil value tombstones
	// the record (delete).
	WriteFull(ctx context.Context, path string, value any) error

	// UpdateFields merges the named fields into the existing value at path
	// without touching unspecified fields.
	UpdateFields(ctx context.Context, path string, fields map[string]any) error

	// AllocateID produces a unique id scoped to a collection, for callers
	// that do not supply their own.
	AllocateID(collection string) string
}

// SplitPath breaks "posts/p1" into ("posts", "p1"). A bare singleton key
// comes back with an empty id.
func SplitPath(path string) (key, id string) {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}
