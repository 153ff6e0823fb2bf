package middleware

import (
	"log"

	"dreamcrafts/internal/models"
	"dreamcrafts/internal/services"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers panics into a generic 500. The panic value goes to
// the process log, Sentry and the security event stream, never to the
// response body.
func ErrorHandler(events *services.EventLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				sentry.CurrentHub().Recover(r)
				events.Log(models.EventInternalError, c.ClientIP(), nil,
					"unhandled panic during request", models.SeverityCritical)
				c.JSON(500, gin.H{"error": "Internal server error"})
				c.Abort()
			}
		}()

		c.Next()
	}
}
