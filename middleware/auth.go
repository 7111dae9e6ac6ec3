// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"club-portal/logger"
)

// -------------- authentication middleware --------------

// AuthRequired ensures the visitor is logged in. Requests without a user in
// the session are redirected to the login page and aborted.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("email")

	if user == nil {
		logger.Warn.Println("AuthRequired: no user in session, redirecting to /login")
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	logger.Debug.Printf("AuthRequired: %v authenticated, proceeding", user)
	c.Next()
}
