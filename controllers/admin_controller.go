// Package controllers provides HTTP handlers for the administrator surface.
// File: controllers/admin_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"club-portal/logger"
	"club-portal/mirror"
	"club-portal/models"
	"club-portal/services"
)

// ---------------- Admin Controller ----------------

// AdminController exposes the moderation queue and the content editor.
// Everything here sits behind the AdminRequired middleware.
type AdminController struct {
	Moderation services.ModerationServiceInterface
	Content    services.ContentServiceInterface
	Mirror     *mirror.Mirror
}

// NewAdminController initializes a new instance of AdminController.
func NewAdminController(moderation services.ModerationServiceInterface, content services.ContentServiceInterface, m *mirror.Mirror) *AdminController {
	return &AdminController{Moderation: moderation, Content: content, Mirror: m}
}

// ---------------- moderation queue ----------------

// PendingAccounts lists registrations awaiting a decision.
func (ac *AdminController) PendingAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pending": ac.Mirror.PendingAccounts()})
}

// ApproveAccount promotes a pending registrant into the members collection.
func (ac *AdminController) ApproveAccount(c *gin.Context) {
	id := c.Param("id")
	err := ac.Moderation.Approve(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrAlreadyApproved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		// May leave the account approved with no member record; re-running
		// the approval redrives only the missing write.
		logger.Error.Printf("ApproveAccount: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Approval did not complete, please retry."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": id})
}

// RejectAccount deletes a registration outright.
func (ac *AdminController) RejectAccount(c *gin.Context) {
	id := c.Param("id")
	err := ac.Moderation.Reject(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error.Printf("RejectAccount: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rejection did not complete, please retry."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rejected": id})
}

// ---------------- feed posts ----------------

// CreatePost adds a feed post.
func (ac *AdminController) CreatePost(c *gin.Context) {
	var post models.ContentPost
	if !bindJSON(c, &post) {
		return
	}
	created, err := ac.Content.CreatePost(c.Request.Context(), post)
	if !writeOK(c, err) {
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdatePost edits a feed post; date and like counter survive the edit.
func (ac *AdminController) UpdatePost(c *gin.Context) {
	var post models.ContentPost
	if !bindJSON(c, &post) {
		return
	}
	if !writeOK(c, ac.Content.UpdatePost(c.Request.Context(), c.Param("id"), post)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": c.Param("id")})
}

// ---------------- notices ----------------

// CreateNotice adds an announcement.
func (ac *AdminController) CreateNotice(c *gin.Context) {
	var notice models.Notice
	if !bindJSON(c, &notice) {
		return
	}
	created, err := ac.Content.CreateNotice(c.Request.Context(), notice)
	if !writeOK(c, err) {
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateNotice edits an announcement.
func (ac *AdminController) UpdateNotice(c *gin.Context) {
	var notice models.Notice
	if !bindJSON(c, &notice) {
		return
	}
	if !writeOK(c, ac.Content.UpdateNotice(c.Request.Context(), c.Param("id"), notice)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": c.Param("id")})
}

// ---------------- gallery ----------------

// CreateGalleryItem adds a photo.
func (ac *AdminController) CreateGalleryItem(c *gin.Context) {
	var item models.GalleryItem
	if !bindJSON(c, &item) {
		return
	}
	created, err := ac.Content.CreateGalleryItem(c.Request.Context(), item)
	if !writeOK(c, err) {
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ---------------- people ----------------

// CreatePerson adds a member or committee member; the :collection param
// picks the namespace.
func (ac *AdminController) CreatePerson(c *gin.Context) {
	var person models.Person
	if !bindJSON(c, &person) {
		return
	}
	created, err := ac.Content.CreatePerson(c.Request.Context(), c.Param("collection"), person)
	if !writeOK(c, err) {
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdatePerson edits a member or committee member.
func (ac *AdminController) UpdatePerson(c *gin.Context) {
	var person models.Person
	if !bindJSON(c, &person) {
		return
	}
	err := ac.Content.UpdatePerson(c.Request.Context(), c.Param("collection"), c.Param("id"), person)
	if !writeOK(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": c.Param("id")})
}

// ---------------- teams ----------------

// CreateTeam adds a tournament team.
func (ac *AdminController) CreateTeam(c *gin.Context) {
	var team models.Team
	if !bindJSON(c, &team) {
		return
	}
	created, err := ac.Content.CreateTeam(c.Request.Context(), team)
	if !writeOK(c, err) {
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateTeam edits a tournament team.
func (ac *AdminController) UpdateTeam(c *gin.Context) {
	var team models.Team
	if !bindJSON(c, &team) {
		return
	}
	if !writeOK(c, ac.Content.UpdateTeam(c.Request.Context(), c.Param("id"), team)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": c.Param("id")})
}

// ---------------- delete ----------------

// DeleteRecord tombstones any record in a managed collection.
func (ac *AdminController) DeleteRecord(c *gin.Context) {
	collection := c.Param("collection")
	id := c.Param("id")
	if !writeOK(c, ac.Content.Delete(c.Request.Context(), collection, id)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ---------------- singleton editors ----------------

// UpdateSiteSettings merges the posted fields into the settings document.
func (ac *AdminController) UpdateSiteSettings(c *gin.Context) {
	ac.updateSingleton(c, ac.Content.ReplaceSiteSettings)
}

// UpdateAboutContent merges the posted fields into the about document.
func (ac *AdminController) UpdateAboutContent(c *gin.Context) {
	ac.updateSingleton(c, ac.Content.ReplaceAboutContent)
}

// UpdateTournamentStats merges the posted fields into the stats document.
func (ac *AdminController) UpdateTournamentStats(c *gin.Context) {
	ac.updateSingleton(c, ac.Content.ReplaceTournamentStats)
}

// UpdateSpecialMatch merges the posted fields into the special match document.
func (ac *AdminController) UpdateSpecialMatch(c *gin.Context) {
	ac.updateSingleton(c, ac.Content.ReplaceSpecialMatch)
}

func (ac *AdminController) updateSingleton(c *gin.Context, replace func(ctx context.Context, fields map[string]any) error) {
	var fields map[string]any
	if !bindJSON(c, &fields) {
		return
	}
	if !writeOK(c, replace(c.Request.Context(), fields)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"replaced": true})
}

// ---------------- shared helpers ----------------

func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		logger.Warn.Printf("bindJSON: malformed payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return false
	}
	return true
}

// writeOK maps service errors onto user-visible responses. It returns true
// when the write succeeded.
func writeOK(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, services.ErrMissingFields), errors.Is(err, services.ErrBadCollection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error.Printf("writeOK: store write failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The change could not be saved, please try again."})
	}
	return false
}
