// Package store - in-memory document store.
// File: store/memstore.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"club-portal/logger"
	"github.com/google/uuid"
)

// MemStore is an in-process implementation of the Store boundary. Records
// live as plain JSON-shaped documents (map[string]any), keyed per collection,
// with subscriber fan-out per top-level key. Writes to the same key are
// delivered to subscribers in write order; nothing is guaranteed across keys.
type MemStore struct {
	mu         sync.Mutex
	docs       map[string]map[string]map[string]any // collection -> id -> doc
	singletons map[string]map[string]any            // key -> doc

	deliverMu sync.Mutex
	subs      map[string]map[int]func(any)
	nextSubID int

	failWrites bool
}

// NewMemStore returns an empty store ready for subscriptions and writes.
func NewMemStore() *MemStore {
	return &MemStore{
		docs:       make(map[string]map[string]map[string]any),
		singletons: make(map[string]map[string]any),
		subs:       make(map[string]map[int]func(any)),
	}
}

// SetUnavailable toggles write failures, simulating an unreachable store.
// Subscriptions stay registered; they just see no further updates.
func (s *MemStore) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = down
}

// ----------------- Store interface -----------------

// Subscribe registers fn for a top-level key and delivers the current value
// synchronously before returning.
func (s *MemStore) Subscribe(key string, fn func(value any)) (cancel func()) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(any))
	}
	id := s.nextSubID
	s.nextSubID++
	s.subs[key][id] = fn
	value := s.snapshotLocked(key)
	s.mu.Unlock()

	fn(value)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[key], id)
			s.mu.Unlock()
		})
	}
}

// WriteFull replaces the value at path; nil tombstones it.
func (s *MemStore) WriteFull(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := toDoc(value)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	key, id := SplitPath(path)

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.failWrites {
		s.mu.Unlock()
		logger.Warn.Printf("[MemStore] write to %s rejected: %v", path, ErrUnavailable)
		return ErrUnavailable
	}
	if id == "" {
		if doc == nil {
			delete(s.singletons, key)
		} else {
			s.singletons[key] = doc
		}
	} else {
		if doc == nil {
			delete(s.docs[key], id)
		} else {
			if s.docs[key] == nil {
				s.docs[key] = make(map[string]map[string]any)
			}
			s.docs[key][id] = doc
		}
	}
	value = s.snapshotLocked(key)
	fns := s.subscribersLocked(key)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
	return nil
}

// UpdateFields merges fields over the existing document at path, creating it
// when absent.
func (s *MemStore) UpdateFields(ctx context.Context, path string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, id := SplitPath(path)

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.failWrites {
		s.mu.Unlock()
		logger.Warn.Printf("[MemStore] update to %s rejected: %v", path, ErrUnavailable)
		return ErrUnavailable
	}
	var prev map[string]any
	if id == "" {
		prev = s.singletons[key]
	} else {
		prev = s.docs[key][id]
	}
	// copy-on-write so previously delivered snapshots are never mutated
	merged := make(map[string]any, len(prev)+len(fields))
	for k, v := range prev {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	if id == "" {
		s.singletons[key] = merged
	} else {
		if s.docs[key] == nil {
			s.docs[key] = make(map[string]map[string]any)
		}
		s.docs[key][id] = merged
	}
	value := s.snapshotLocked(key)
	fns := s.subscribersLocked(key)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
	return nil
}

// AllocateID produces a unique record id for a collection.
func (s *MemStore) AllocateID(collection string) string {
	id := uuid.NewString()
	logger.Debug.Printf("[MemStore] allocated id %s for collection %s", id, collection)
	return id
}

// ----------------- internals -----------------

// snapshotLocked returns the current value at key: a map of id -> doc for
// collections, the doc itself (or nil) for singletons. Caller holds s.mu.
func (s *MemStore) snapshotLocked(key string) any {
	if doc, ok := s.singletons[key]; ok {
		return doc
	}
	records, ok := s.docs[key]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(records))
	for id, doc := range records {
		out[id] = doc
	}
	return out
}

func (s *MemStore) subscribersLocked(key string) []func(any) {
	fns := make([]func(any), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	return fns
}

// toDoc converts any value into its JSON document shape. nil stays nil and
// means "tombstone".
func toDoc(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
