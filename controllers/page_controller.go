// Package controllers file: controllers/page_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"club-portal/logger"
	"club-portal/mirror"
	"club-portal/services"
	"club-portal/session"
)

var (
	// ApplicationURL is the externally visible base URL, set from main.
	ApplicationURL string
	// WebsocketURL is the live-updates endpoint handed to the pages.
	WebsocketURL string
)

// SetConfig stores the externally visible URLs for the page handlers.
func SetConfig(appURL, wsURL string) {
	ApplicationURL = appURL
	WebsocketURL = wsURL
}

// PageController serves the public read surface out of the mirror snapshot.
// The store being unreachable is not an error here: the mirror answers with
// defaults and the pages render empty.
type PageController struct {
	Mirror  *mirror.Mirror
	Content services.ContentServiceInterface
	Session *session.Manager
}

// NewPageController initializes a PageController.
func NewPageController(m *mirror.Mirror, content services.ContentServiceInterface, sm *session.Manager) *PageController {
	return &PageController{Mirror: m, Content: content, Session: sm}
}

// Health responds to load-balancer health checks.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// ------------------ public pages ------------------

// Home bundles everything the landing page shows.
func (pc *PageController) Home(c *gin.Context) {
	pc.Session.SetView("home")
	c.JSON(http.StatusOK, gin.H{
		"settings":     pc.Mirror.SiteSettings(),
		"posts":        pc.Mirror.Posts(),
		"notices":      pc.Mirror.Notices(),
		"specialMatch": pc.Mirror.SpecialMatch(),
		"websocketUrl": WebsocketURL,
	})
}

// Members lists the general members.
func (pc *PageController) Members(c *gin.Context) {
	pc.Session.SetView("members")
	c.JSON(http.StatusOK, gin.H{"members": pc.Mirror.Members()})
}

// Committee lists the committee members.
func (pc *PageController) Committee(c *gin.Context) {
	pc.Session.SetView("committee")
	c.JSON(http.StatusOK, gin.H{"committee": pc.Mirror.Committee()})
}

// Gallery lists the photo gallery.
func (pc *PageController) Gallery(c *gin.Context) {
	pc.Session.SetView("gallery")
	c.JSON(http.StatusOK, gin.H{"gallery": pc.Mirror.Gallery()})
}

// Notices lists the announcements.
func (pc *PageController) Notices(c *gin.Context) {
	pc.Session.SetView("notices")
	c.JSON(http.StatusOK, gin.H{"notices": pc.Mirror.Notices()})
}

// Tournament bundles teams, stats and the special match.
func (pc *PageController) Tournament(c *gin.Context) {
	pc.Session.SetView("tournament")
	c.JSON(http.StatusOK, gin.H{
		"teams":        pc.Mirror.Teams(),
		"stats":        pc.Mirror.TournamentStats(),
		"specialMatch": pc.Mirror.SpecialMatch(),
	})
}

// About serves the about-the-club document.
func (pc *PageController) About(c *gin.Context) {
	pc.Session.SetView("about")
	c.JSON(http.StatusOK, gin.H{"about": pc.Mirror.AboutContent()})
}

// ------------------ public engagement ------------------

// LikePost lets any visitor like a feed post.
func (pc *PageController) LikePost(c *gin.Context) {
	id := c.Param("id")
	err := pc.Content.LikePost(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	case err != nil:
		logger.Error.Printf("LikePost: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not save your like, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": id})
}

// ------------------ QR code ------------------

// GetQRCode serves a QR code PNG pointing at the registration page.
func GetQRCode(c *gin.Context) {
	png, err := services.GenerateRegistrationQRCode(256)
	if err != nil {
		logger.Error.Printf("GetQRCode: %v", err)
		c.String(http.StatusInternalServerError, "failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
