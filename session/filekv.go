// Package session - JSON-file implementation of the KV boundary.
// File: session/filekv.go
package session

import (
	"encoding/json"
	"os"
	"sync"

	"club-portal/logger"
)

// FileKV persists string pairs to a single JSON file. Good enough for the
// handful of session keys this application stores.
type FileKV struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileKV loads the file at path if it exists; a missing or unreadable
// file simply starts empty.
func NewFileKV(path string) *FileKV {
	kv := &FileKV{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn.Printf("[FileKV] could not read %s: %v", path, err)
		}
		return kv
	}
	if err := json.Unmarshal(data, &kv.values); err != nil {
		logger.Warn.Printf("[FileKV] corrupt store at %s, starting empty: %v", path, err)
		kv.values = make(map[string]string)
	}
	return kv
}

// Get returns the value for key and whether it was present.
func (kv *FileKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.values[key]
	return v, ok
}

// Set stores the pair and flushes the whole file.
func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.values[key] = value
	return kv.flushLocked()
}

// ClearAll drops every stored pair and flushes.
func (kv *FileKV) ClearAll() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.values = make(map[string]string)
	return kv.flushLocked()
}

func (kv *FileKV) flushLocked() error {
	data, err := json.Marshal(kv.values)
	if err != nil {
		return err
	}
	return os.WriteFile(kv.path, data, 0600)
}
