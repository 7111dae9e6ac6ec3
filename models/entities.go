// Package models defines data structures used across the application.
// File: models/entities.go
package models

import "time"

// ----------------------- account lifecycle -----------------------

// Account statuses. An account is created pending and only the moderation
// flow moves it to approved; there is no way back.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultAvatarURL is used whenever a registrant or member has no image.
const DefaultAvatarURL = "/static/images/default_avatar.png"

// Account represents a registrant. Email is unique across all accounts.
// PasswordHash holds a bcrypt hash; the plain password is never stored.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"passwordHash"`
	Status       string    `json:"status"`
	Role         string    `json:"role"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ----------------------- people -----------------------

// Person is a club member or a committee member. Which one it is depends on
// the collection that holds it, not on a field; ids are only unique within
// their own collection.
type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"` // display label, e.g. "General Member", "Secretary"
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// ----------------------- feed content -----------------------

// Media types for a ContentPost.
const (
	MediaNone  = "none"
	MediaImage = "image"
	MediaVideo = "video"
)

// ContentPost is an admin-authored feed item. The public feed is ordered
// newest-first by CreatedAt. CreatedAt and LikeCount are stamped on create
// and survive later edits untouched.
type ContentPost struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	MediaType string    `json:"mediaType"`
	LikeCount int       `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notice is a club announcement.
type Notice struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GalleryItem is a single photo in the club gallery.
type GalleryItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"createdAt"`
}

// Team is a tournament team with its ordered player list.
type Team struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LogoURL      string    `json:"logoUrl"`
	CaptainName  string    `json:"captainName,omitempty"`
	CaptainImage string    `json:"captainImage,omitempty"`
	Players      []string  `json:"players"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ----------------------- singleton documents -----------------------

// SiteSettings is the site-wide configuration document. Exactly one live
// value exists; it is replaced wholesale on every write.
type SiteSettings struct {
	ClubName    string `json:"clubName"`
	LogoURL     string `json:"logoUrl"`
	BannerURL   string `json:"bannerUrl"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	FacebookURL string `json:"facebookUrl"`
	YoutubeURL  string `json:"youtubeUrl"`
}

// AboutContent is the "about the club" document.
type AboutContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// TournamentStats holds the headline numbers for the running tournament.
type TournamentStats struct {
	Title        string `json:"title"`
	Season       string `json:"season"`
	TeamCount    int    `json:"teamCount"`
	MatchCount   int    `json:"matchCount"`
	ChampionName string `json:"championName"`
}

// SpecialMatch announces a featured upcoming match.
type SpecialMatch struct {
	Title     string `json:"title"`
	TeamA     string `json:"teamA"`
	TeamB     string `json:"teamB"`
	Venue     string `json:"venue"`
	StartsAt  string `json:"startsAt"`
	BannerURL string `json:"bannerUrl"`
}
