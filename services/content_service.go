// Package services: services/content_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"club-portal/logger"
	"club-portal/mirror"
	"club-portal/models"
	"club-portal/store"
)

// Editor outcomes surfaced to callers.
var (
	ErrNotFound      = errors.New("record not found")
	ErrBadCollection = errors.New("unknown people collection")
)

// ContentServiceInterface is the uniform create/update/delete surface the
// administrator views call. Singletons are replaced wholesale after a local
// merge so untouched fields survive.
type ContentServiceInterface interface {
	CreatePost(ctx context.Context, post models.ContentPost) (models.ContentPost, error)
	UpdatePost(ctx context.Context, id string, post models.ContentPost) error
	LikePost(ctx context.Context, id string) error

	CreateNotice(ctx context.Context, notice models.Notice) (models.Notice, error)
	UpdateNotice(ctx context.Context, id string, notice models.Notice) error

	CreateGalleryItem(ctx context.Context, item models.GalleryItem) (models.GalleryItem, error)

	CreatePerson(ctx context.Context, collection string, person models.Person) (models.Person, error)
	UpdatePerson(ctx context.Context, collection, id string, person models.Person) error

	CreateTeam(ctx context.Context, team models.Team) (models.Team, error)
	UpdateTeam(ctx context.Context, id string, team models.Team) error

	Delete(ctx context.Context, collection, id string) error

	ReplaceSiteSettings(ctx context.Context, fields map[string]any) error
	ReplaceAboutContent(ctx context.Context, fields map[string]any) error
	ReplaceTournamentStats(ctx context.Context, fields map[string]any) error
	ReplaceSpecialMatch(ctx context.Context, fields map[string]any) error
}

// ContentService is the CRUD facade over every managed collection.
type ContentService struct {
	store  store.Store
	mirror *mirror.Mirror
}

// NewContentService creates a ContentService.
func NewContentService(s store.Store, m *mirror.Mirror) *ContentService {
	return &ContentService{store: s, mirror: m}
}

// ----------------- posts -----------------

// CreatePost stamps the creation date and a zero like counter; both survive
// every later edit.
func (s *ContentService) CreatePost(ctx context.Context, post models.ContentPost) (models.ContentPost, error) {
	if post.Content == "" && post.MediaURL == "" {
		return models.ContentPost{}, ErrMissingFields
	}
	if post.ID == "" {
		post.ID = s.store.AllocateID(mirror.KeyPosts)
	}
	if post.MediaType == "" {
		post.MediaType = models.MediaNone
	}
	post.CreatedAt = time.Now()
	post.LikeCount = 0
	if err := s.store.WriteFull(ctx, mirror.KeyPosts+"/"+post.ID, post); err != nil {
		return models.ContentPost{}, fmt.Errorf("create post: %w", err)
	}
	logger.Info.Printf("[CreatePost] post %s created", post.ID)
	return post, nil
}

// UpdatePost overwrites a post, re-reading the previous record so the
// creation date and like counter carry over untouched.
func (s *ContentService) UpdatePost(ctx context.Context, id string, post models.ContentPost) error {
	prev, ok := findByID(s.mirror.Posts(), func(p models.ContentPost) string { return p.ID }, id)
	if !ok {
		return ErrNotFound
	}
	post.ID = id
	post.CreatedAt = prev.CreatedAt
	post.LikeCount = prev.LikeCount
	if post.MediaType == "" {
		post.MediaType = prev.MediaType
	}
	if err := s.store.WriteFull(ctx, mirror.KeyPosts+"/"+id, post); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// LikePost bumps the engagement counter by one. Last write wins if two
// readers like at the same moment; the store arbitrates.
func (s *ContentService) LikePost(ctx context.Context, id string) error {
	prev, ok := findByID(s.mirror.Posts(), func(p models.ContentPost) string { return p.ID }, id)
	if !ok {
		return ErrNotFound
	}
	err := s.store.UpdateFields(ctx, mirror.KeyPosts+"/"+id, map[string]any{"likeCount": prev.LikeCount + 1})
	if err != nil {
		return fmt.Errorf("like post: %w", err)
	}
	return nil
}

// ----------------- notices -----------------

// CreateNotice stamps the creation date at create time.
func (s *ContentService) CreateNotice(ctx context.Context, notice models.Notice) (models.Notice, error) {
	if notice.Title == "" || notice.Description == "" {
		return models.Notice{}, ErrMissingFields
	}
	if notice.ID == "" {
		notice.ID = s.store.AllocateID(mirror.KeyNotices)
	}
	notice.CreatedAt = time.Now()
	if err := s.store.WriteFull(ctx, mirror.KeyNotices+"/"+notice.ID, notice); err != nil {
		return models.Notice{}, fmt.Errorf("create notice: %w", err)
	}
	logger.Info.Printf("[CreateNotice] notice %s created", notice.ID)
	return notice, nil
}

// UpdateNotice overwrites a notice, preserving its creation date.
func (s *ContentService) UpdateNotice(ctx context.Context, id string, notice models.Notice) error {
	prev, ok := findByID(s.mirror.Notices(), func(n models.Notice) string { return n.ID }, id)
	if !ok {
		return ErrNotFound
	}
	notice.ID = id
	notice.CreatedAt = prev.CreatedAt
	if err := s.store.WriteFull(ctx, mirror.KeyNotices+"/"+id, notice); err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	return nil
}

// ----------------- gallery -----------------

// CreateGalleryItem adds a photo to the gallery.
func (s *ContentService) CreateGalleryItem(ctx context.Context, item models.GalleryItem) (models.GalleryItem, error) {
	if item.URL == "" {
		return models.GalleryItem{}, ErrMissingFields
	}
	if item.ID == "" {
		item.ID = s.store.AllocateID(mirror.KeyGallery)
	}
	item.CreatedAt = time.Now()
	if err := s.store.WriteFull(ctx, mirror.KeyGallery+"/"+item.ID, item); err != nil {
		return models.GalleryItem{}, fmt.Errorf("create gallery item: %w", err)
	}
	return item, nil
}

// ----------------- people -----------------

// CreatePerson writes a member or committee record depending on the target
// collection; the two are separate namespaces.
func (s *ContentService) CreatePerson(ctx context.Context, collection string, person models.Person) (models.Person, error) {
	if collection != mirror.KeyMembers && collection != mirror.KeyCommittee {
		return models.Person{}, ErrBadCollection
	}
	if person.Name == "" {
		return models.Person{}, ErrMissingFields
	}
	if person.ID == "" {
		person.ID = s.store.AllocateID(collection)
	}
	if person.ImageURL == "" {
		person.ImageURL = models.DefaultAvatarURL
	}
	person.CreatedAt = time.Now()
	if err := s.store.WriteFull(ctx, collection+"/"+person.ID, person); err != nil {
		return models.Person{}, fmt.Errorf("create person: %w", err)
	}
	return person, nil
}

// UpdatePerson overwrites a person record in its owning collection.
func (s *ContentService) UpdatePerson(ctx context.Context, collection, id string, person models.Person) error {
	var prev models.Person
	var ok bool
	switch collection {
	case mirror.KeyMembers:
		prev, ok = findByID(s.mirror.Members(), func(p models.Person) string { return p.ID }, id)
	case mirror.KeyCommittee:
		prev, ok = findByID(s.mirror.Committee(), func(p models.Person) string { return p.ID }, id)
	default:
		return ErrBadCollection
	}
	if !ok {
		return ErrNotFound
	}
	person.ID = id
	person.CreatedAt = prev.CreatedAt
	if person.ImageURL == "" {
		person.ImageURL = prev.ImageURL
	}
	if err := s.store.WriteFull(ctx, collection+"/"+id, person); err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// ----------------- teams -----------------

// CreateTeam adds a tournament team.
func (s *ContentService) CreateTeam(ctx context.Context, team models.Team) (models.Team, error) {
	if team.Name == "" {
		return models.Team{}, ErrMissingFields
	}
	if team.ID == "" {
		team.ID = s.store.AllocateID(mirror.KeyTeams)
	}
	if team.Players == nil {
		team.Players = []string{}
	}
	team.CreatedAt = time.Now()
	if err := s.store.WriteFull(ctx, mirror.KeyTeams+"/"+team.ID, team); err != nil {
		return models.Team{}, fmt.Errorf("create team: %w", err)
	}
	return team, nil
}

// UpdateTeam overwrites a team, preserving its creation date.
func (s *ContentService) UpdateTeam(ctx context.Context, id string, team models.Team) error {
	prev, ok := findByID(s.mirror.Teams(), func(t models.Team) string { return t.ID }, id)
	if !ok {
		return ErrNotFound
	}
	team.ID = id
	team.CreatedAt = prev.CreatedAt
	if team.Players == nil {
		team.Players = prev.Players
	}
	if err := s.store.WriteFull(ctx, mirror.KeyTeams+"/"+id, team); err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}

// ----------------- delete -----------------

// Delete tombstones a record; the next mirror update reflects the removal.
func (s *ContentService) Delete(ctx context.Context, collection, id string) error {
	if id == "" {
		return ErrNotFound
	}
	if err := s.store.WriteFull(ctx, collection+"/"+id, nil); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	logger.Info.Printf("[Delete] removed %s/%s", collection, id)
	return nil
}

// ----------------- singletons -----------------

// ReplaceSiteSettings merges the changed fields over the current document
// and writes the whole thing back.
func (s *ContentService) ReplaceSiteSettings(ctx context.Context, fields map[string]any) error {
	return s.replaceSingleton(ctx, mirror.KeySiteSettings, s.mirror.SiteSettings(), fields)
}

// ReplaceAboutContent merges and replaces the about document.
func (s *ContentService) ReplaceAboutContent(ctx context.Context, fields map[string]any) error {
	return s.replaceSingleton(ctx, mirror.KeyAboutContent, s.mirror.AboutContent(), fields)
}

// ReplaceTournamentStats merges and replaces the tournament stats document.
func (s *ContentService) ReplaceTournamentStats(ctx context.Context, fields map[string]any) error {
	return s.replaceSingleton(ctx, mirror.KeyTournamentStats, s.mirror.TournamentStats(), fields)
}

// ReplaceSpecialMatch merges and replaces the special match document.
func (s *ContentService) ReplaceSpecialMatch(ctx context.Context, fields map[string]any) error {
	return s.replaceSingleton(ctx, mirror.KeySpecialMatch, s.mirror.SpecialMatch(), fields)
}

// replaceSingleton overlays fields on the current document before writing.
// The store has no partial patch for singletons, so the merge happens here.
func (s *ContentService) replaceSingleton(ctx context.Context, key string, current any, fields map[string]any) error {
	doc, err := toFieldMap(current)
	if err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	if err := s.store.WriteFull(ctx, key, doc); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	logger.Info.Printf("[replaceSingleton] %s replaced (%d fields touched)", key, len(fields))
	return nil
}

// ----------------- helpers -----------------

func findByID[T any](items []T, id func(T) string, want string) (T, bool) {
	for _, item := range items {
		if id(item) == want {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func toFieldMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
