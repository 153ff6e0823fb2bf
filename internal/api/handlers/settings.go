package handlers

import (
	"errors"

	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

type SettingRequest struct {
	Value string `json:"value"`
}

// GetSettings returns the full settings map
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.All()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get settings"})
		return
	}

	c.JSON(200, gin.H{"settings": settings})
}

// UpdateSetting validates and writes a single setting
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.settingsService.Set(key, req.Value); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownSetting):
			c.JSON(404, gin.H{"error": "Unknown setting"})
		case errors.Is(err, services.ErrInvalidSetting):
			c.JSON(400, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to update setting"})
		}
		return
	}

	value, err := h.settingsService.Get(key)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to update setting"})
		return
	}

	c.JSON(200, gin.H{"key": key, "value": value})
}
