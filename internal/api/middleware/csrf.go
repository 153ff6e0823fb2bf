package middleware

import (
	"net/http"

	"dreamcrafts/internal/models"
	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

// CSRFMiddleware guards state-changing requests. Runs after
// SessionMiddleware; the token comes from the X-CSRF-Token header or a
// csrf_token form field and must match the session's issued token. A missing
// or mismatched token always fails closed and is logged at critical severity.
func CSRFMiddleware(sessions *services.SessionAuthorityService, events *services.EventLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		value, exists := c.Get("session")
		if !exists {
			c.JSON(401, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		session := value.(*models.Session)

		candidate := c.GetHeader("X-CSRF-Token")
		if candidate == "" {
			candidate = c.PostForm("csrf_token")
		}

		if !sessions.ValidateCSRFToken(session, candidate) {
			events.Log(models.EventCSRFFailure, c.ClientIP(), &session.UserID,
				"CSRF token missing or invalid", models.SeverityCritical)
			c.JSON(403, gin.H{"error": "Invalid CSRF token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
