// Package session holds the process-wide login state and persists it across
// restarts through a durable key-value boundary.
// File: session/session.go
package session

import (
	"encoding/json"
	"sync"

	"club-portal/logger"
)

// KV is the durable local-storage boundary: a plain string store that
// survives process restarts on the same client.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	ClearAll() error
}

// DefaultView is where every session starts and where logout lands.
const DefaultView = "home"

// stateKey is the single KV slot the session state lives under.
const stateKey = "session"

// State is the immutable session value threaded through views. Mutation
// happens only through the Manager, which persists every change.
type State struct {
	Authenticated bool   `json:"authenticated"`
	Admin         bool   `json:"admin"`
	Email         string `json:"email"`
	View          string `json:"view"`
}

// Manager owns the current State and the persistence side effect.
type Manager struct {
	mu    sync.Mutex
	kv    KV
	state State
}

// NewManager restores the persisted state, falling back to logged-out
// defaults when nothing usable is stored.
func NewManager(kv KV) *Manager {
	m := &Manager{kv: kv, state: State{View: DefaultView}}
	if raw, ok := kv.Get(stateKey); ok {
		var restored State
		if err := json.Unmarshal([]byte(raw), &restored); err != nil {
			logger.Warn.Printf("[session] discarding unreadable persisted state: %v", err)
		} else {
			if restored.View == "" {
				restored.View = DefaultView
			}
			m.state = restored
			logger.Info.Printf("[session] restored state: authenticated=%t admin=%t view=%s",
				restored.Authenticated, restored.Admin, restored.View)
		}
	}
	return m
}

// Current returns the session state value.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Login records a successful authentication and persists it.
func (m *Manager) Login(email string, admin bool) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Authenticated = true
	m.state.Admin = admin
	m.state.Email = email
	m.persistLocked()
	return m.state
}

// SetView records the active view and persists it.
func (m *Manager) SetView(view string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.View = view
	m.persistLocked()
	return m.state
}

// Logout clears all persisted session data unconditionally and resets the
// in-memory state to logged-out defaults with the home view.
func (m *Manager) Logout() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.kv.ClearAll(); err != nil {
		logger.Error.Printf("[session] failed to clear persisted state: %v", err)
	}
	m.state = State{View: DefaultView}
	return m.state
}

func (m *Manager) persistLocked() {
	raw, err := json.Marshal(m.state)
	if err != nil {
		logger.Error.Printf("[session] failed to encode state: %v", err)
		return
	}
	if err := m.kv.Set(stateKey, string(raw)); err != nil {
		logger.Error.Printf("[session] failed to persist state: %v", err)
	}
}
