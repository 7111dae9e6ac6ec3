// Package mirror keeps a live, typed local copy of every remote collection
// and singleton the site is built from.
// File: mirror/mirror.go
package mirror

import (
	"sync"
	"time"

	"club-portal/logger"
	"club-portal/models"
	"club-portal/store"
)

// Logical keys in the remote store. Adding a managed collection means adding
// a key here and one entry in the table below.
const (
	KeyAccounts  = "accounts"
	KeyMembers   = "members"
	KeyCommittee = "committee"
	KeyPosts     = "posts"
	KeyNotices   = "notices"
	KeyGallery   = "gallery"
	KeyTeams     = "teams"

	KeySiteSettings    = "siteSettings"
	KeyAboutContent    = "aboutContent"
	KeyTournamentStats = "tournamentStats"
	KeySpecialMatch    = "specialMatch"
)

// Kind distinguishes keyed collections from wholesale-replaced singletons.
type Kind int

// Kinds of logical keys.
const (
	Collection Kind = iota
	Singleton
)

// keyEntry is one row of the declarative key table: what the key holds and
// how a raw store value lands in the local cache.
type keyEntry struct {
	key   string
	kind  Kind
	apply func(raw any)
}

// Mirror subscribes to every logical key and holds the always-current local
// copy. The subscription callback is the single writer per slot; all views
// read copies through the accessors and never mutate the cache.
type Mirror struct {
	store store.Store

	mu        sync.RWMutex
	accounts  []models.Account
	members   []models.Person
	committee []models.Person
	posts     []models.ContentPost
	notices   []models.Notice
	gallery   []models.GalleryItem
	teams     []models.Team

	siteSettings    models.SiteSettings
	aboutContent    models.AboutContent
	tournamentStats models.TournamentStats
	specialMatch    models.SpecialMatch

	cancels  []func()
	onUpdate func(key string)
}

// New returns a Mirror with empty collections and zero-value singletons. It
// serves defaults until Start is called and the store delivers data.
func New(s store.Store) *Mirror {
	return &Mirror{
		store:     s,
		accounts:  []models.Account{},
		members:   []models.Person{},
		committee: []models.Person{},
		posts:     []models.ContentPost{},
		notices:   []models.Notice{},
		gallery:   []models.GalleryItem{},
		teams:     []models.Team{},
	}
}

// OnUpdate registers a hook invoked after each applied update with the key
// that changed. Set it before Start; it runs on the subscription callback's
// goroutine and must not block.
func (m *Mirror) OnUpdate(fn func(key string)) {
	m.onUpdate = fn
}

// Start establishes one subscription per logical key. Calling Start again
// cancels every previous subscription first, so there is never more than one
// active subscription per key and never duplicate delivery.
func (m *Mirror) Start() {
	m.Stop()
	for _, entry := range m.table() {
		e := entry
		cancel := m.store.Subscribe(e.key, func(raw any) {
			e.apply(raw)
			logger.Debug.Printf("[Mirror] applied update for key=%s", e.key)
			if m.onUpdate != nil {
				m.onUpdate(e.key)
			}
		})
		m.cancels = append(m.cancels, cancel)
	}
	logger.Info.Printf("[Mirror] started with %d subscriptions", len(m.cancels))
}

// Stop cancels all active subscriptions. In-flight store writes are not
// cancelled; any late notification lands on a cancelled subscription and is
// dropped by the store.
func (m *Mirror) Stop() {
	for _, cancel := range m.cancels {
		cancel()
	}
	m.cancels = nil
}

// ----------------- the key table -----------------

func (m *Mirror) table() []keyEntry {
	return []keyEntry{
		{KeyAccounts, Collection, func(raw any) {
			applyCollection(m, &m.accounts, raw, func(a, b models.Account) bool {
				return recency(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
			})
		}},
		{KeyMembers, Collection, func(raw any) {
			applyCollection(m, &m.members, raw, newerPerson)
		}},
		{KeyCommittee, Collection, func(raw any) {
			applyCollection(m, &m.committee, raw, newerPerson)
		}},
		{KeyPosts, Collection, func(raw any) {
			applyCollection(m, &m.posts, raw, func(a, b models.ContentPost) bool {
				return recency(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
			})
		}},
		{KeyNotices, Collection, func(raw any) {
			applyCollection(m, &m.notices, raw, func(a, b models.Notice) bool {
				return recency(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
			})
		}},
		{KeyGallery, Collection, func(raw any) {
			applyCollection(m, &m.gallery, raw, func(a, b models.GalleryItem) bool {
				return recency(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
			})
		}},
		{KeyTeams, Collection, func(raw any) {
			applyCollection(m, &m.teams, raw, func(a, b models.Team) bool {
				return recency(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
			})
		}},
		{KeySiteSettings, Singleton, func(raw any) {
			applySingleton(m, &m.siteSettings, raw)
		}},
		{KeyAboutContent, Singleton, func(raw any) {
			applySingleton(m, &m.aboutContent, raw)
		}},
		{KeyTournamentStats, Singleton, func(raw any) {
			applySingleton(m, &m.tournamentStats, raw)
		}},
		{KeySpecialMatch, Singleton, func(raw any) {
			applySingleton(m, &m.specialMatch, raw)
		}},
	}
}

// applyCollection formats the raw value and swaps the slot atomically. An
// empty or absent raw value resets the slot to an empty slice, never stale.
func applyCollection[T any](m *Mirror, slot *[]T, raw any, newer func(a, b T) bool) {
	items := FormatCollection(raw, newer)
	m.mu.Lock()
	*slot = items
	m.mu.Unlock()
}

// applySingleton replaces the slot only when a well-formed document arrived.
// Singletons are replaced wholesale, never cleared implicitly.
func applySingleton[T any](m *Mirror, slot *T, raw any) {
	v, ok := DecodeSingleton[T](raw)
	if !ok {
		return
	}
	m.mu.Lock()
	*slot = v
	m.mu.Unlock()
}

// recency orders newest-first by explicit creation timestamp, falling back
// to the id for a stable order when timestamps tie.
func recency(at time.Time, aID string, bt time.Time, bID string) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return aID > bID
}

func newerPerson(a, b models.Person) bool {
	return recency(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
}

// ----------------- snapshot accessors -----------------

// Accounts returns a copy of the current accounts collection.
func (m *Mirror) Accounts() []models.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Account{}, m.accounts...)
}

// PendingAccounts returns only the accounts awaiting moderation.
func (m *Mirror) PendingAccounts() []models.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pending := []models.Account{}
	for _, a := range m.accounts {
		if a.Status == models.StatusPending {
			pending = append(pending, a)
		}
	}
	return pending
}

// Members returns a copy of the general-members collection.
func (m *Mirror) Members() []models.Person {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Person{}, m.members...)
}

// Committee returns a copy of the committee collection.
func (m *Mirror) Committee() []models.Person {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Person{}, m.committee...)
}

// Posts returns the feed, newest first.
func (m *Mirror) Posts() []models.ContentPost {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ContentPost{}, m.posts...)
}

// Notices returns a copy of the notices collection.
func (m *Mirror) Notices() []models.Notice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Notice{}, m.notices...)
}

// Gallery returns a copy of the gallery collection.
func (m *Mirror) Gallery() []models.GalleryItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.GalleryItem{}, m.gallery...)
}

// Teams returns a copy of the teams collection.
func (m *Mirror) Teams() []models.Team {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Team{}, m.teams...)
}

// SiteSettings returns the current site settings document.
func (m *Mirror) SiteSettings() models.SiteSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.siteSettings
}

// AboutContent returns the current about document.
func (m *Mirror) AboutContent() models.AboutContent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.aboutContent
}

// TournamentStats returns the current tournament stats document.
func (m *Mirror) TournamentStats() models.TournamentStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tournamentStats
}

// SpecialMatch returns the current special match document.
func (m *Mirror) SpecialMatch() models.SpecialMatch {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.specialMatch
}
