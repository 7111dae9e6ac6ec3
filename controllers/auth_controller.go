// Package controllers handles user authentication and session management.
// File: controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"club-portal/logger"
	"club-portal/models"
	"club-portal/services"
	"club-portal/session"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	Moderation services.ModerationServiceInterface
	Session    *session.Manager
}

// NewAuthController initializes an AuthController.
func NewAuthController(moderation services.ModerationServiceInterface, sm *session.Manager) *AuthController {
	return &AuthController{Moderation: moderation, Session: sm}
}

// ------------------ registration ------------------

// Register accepts the self-service registration form and creates a pending
// account. The applicant cannot log in until an administrator approves them.
func (ac *AuthController) Register(c *gin.Context) {
	form := services.RegistrationForm{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Phone:    c.PostForm("phone"),
		Password: c.PostForm("password"),
		ImageURL: c.PostForm("imageUrl"),
	}

	account, err := ac.Moderation.Register(c.Request.Context(), form)
	switch {
	case errors.Is(err, services.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error.Printf("Register: store write failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Registration could not be saved, please try again."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     account.ID,
		"status": account.Status,
	})
}

// ------------------ login handling ------------------

// PerformLogin authenticates the posted credentials and stores the session
// flags. Pending accounts get a distinct "awaiting approval" answer so the
// applicant knows their registration went through.
func (ac *AuthController) PerformLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		logger.Warn.Println("PerformLogin: missing email or password")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields."})
		return
	}

	result, err := ac.Moderation.Authenticate(c.Request.Context(), email, password)
	switch {
	case errors.Is(err, services.ErrAwaitingApproval):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error.Printf("PerformLogin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again."})
		return
	}

	isAdmin := result.Role == models.RoleAdmin

	sess := sessions.Default(c)
	sess.Set("email", result.Email)
	sess.Set("name", result.Name)
	sess.Set("isAdmin", isAdmin)
	if err := sess.Save(); err != nil {
		logger.Error.Println("PerformLogin: failed to save session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again."})
		return
	}

	ac.Session.Login(result.Email, isAdmin)

	c.JSON(http.StatusOK, gin.H{
		"name":  result.Name,
		"role":  result.Role,
		"admin": isAdmin,
	})
}

// Logout clears every session value, durable state included, and sends the
// visitor back home.
func (ac *AuthController) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	if err := sess.Save(); err != nil {
		logger.Error.Printf("Logout: error saving cleared session: %v", err)
	}

	ac.Session.Logout()
	logger.Info.Println("Logout: session cleared")

	c.Redirect(http.StatusFound, "/")
}

// SessionStatus reports the current session flags for the presentation layer.
func (ac *AuthController) SessionStatus(c *gin.Context) {
	state := ac.Session.Current()
	c.JSON(http.StatusOK, gin.H{
		"authenticated": state.Authenticated,
		"admin":         state.Admin,
		"email":         state.Email,
		"view":          state.View,
	})
}
