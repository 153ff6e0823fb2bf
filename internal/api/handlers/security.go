package handlers

import (
	"strconv"

	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

// SecurityHandler exposes the recent security event stream to the admin.
type SecurityHandler struct {
	events  *services.EventLogService
	limiter *services.RateLimiterService
}

func NewSecurityHandler(events *services.EventLogService, limiter *services.RateLimiterService) *SecurityHandler {
	return &SecurityHandler{events: events, limiter: limiter}
}

// GetEvents returns recent security events, optionally filtered by severity.
func (h *SecurityHandler) GetEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := h.events.Recent(limit, c.Query("severity"))
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get security events"})
		return
	}

	c.JSON(200, gin.H{"events": events})
}

// GetSuspicion runs the soft suspicious-activity heuristic for an IP. Read
// only; the heuristic never blocks anything.
func (h *SecurityHandler) GetSuspicion(c *gin.Context) {
	ip := c.Query("ip")
	if ip == "" {
		c.JSON(400, gin.H{"error": "ip query parameter is required"})
		return
	}

	c.JSON(200, h.limiter.CheckSuspicious(ip))
}
