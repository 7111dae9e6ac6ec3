// Package middleware - admin gate for the administrator surface.
// File: middleware/admin_required.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"club-portal/logger"
)

// AdminRequired blocks non-administrators from the admin surface. A visitor
// without the admin flag is silently redirected home rather than shown an
// error page.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		isAdmin, ok := session.Get("isAdmin").(bool)

		if !ok || !isAdmin {
			logger.Warn.Printf("AdminRequired: blocked non-admin access to %s", c.Request.URL.Path)
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		logger.Debug.Println("AdminRequired: passed, continuing request")
		c.Next()
	}
}
