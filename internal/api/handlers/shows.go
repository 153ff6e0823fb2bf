package handlers

import (
	"errors"
	"strconv"
	"time"

	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

type ShowHandler struct {
	showService *services.CraftShowService
}

func NewShowHandler(showService *services.CraftShowService) *ShowHandler {
	return &ShowHandler{showService: showService}
}

type ShowRequest struct {
	Name     string    `json:"name" binding:"required"`
	Venue    string    `json:"venue"`
	City     string    `json:"city"`
	StartsOn time.Time `json:"starts_on" binding:"required"`
	EndsOn   time.Time `json:"ends_on" binding:"required"`
	Booth    string    `json:"booth"`
	URL      string    `json:"url"`
	Notes    string    `json:"notes"`
}

func (r *ShowRequest) data() *services.CraftShowData {
	return &services.CraftShowData{
		Name:     r.Name,
		Venue:    r.Venue,
		City:     r.City,
		StartsOn: r.StartsOn,
		EndsOn:   r.EndsOn,
		Booth:    r.Booth,
		URL:      r.URL,
		Notes:    r.Notes,
	}
}

// GetShows returns all craft shows
func (h *ShowHandler) GetShows(c *gin.Context) {
	shows, err := h.showService.GetShows()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get shows"})
		return
	}

	c.JSON(200, gin.H{"shows": shows})
}

// GetShow returns a specific craft show
func (h *ShowHandler) GetShow(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid show ID"})
		return
	}

	show, err := h.showService.GetShow(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrShowNotFound) {
			c.JSON(404, gin.H{"error": "Show not found"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to get show"})
		return
	}

	c.JSON(200, show)
}

// CreateShow creates a new craft show
func (h *ShowHandler) CreateShow(c *gin.Context) {
	var req ShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	show, err := h.showService.CreateShow(req.data())
	if err != nil {
		if errors.Is(err, services.ErrShowDates) {
			c.JSON(400, gin.H{"error": "Show end date is before start date"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to create show"})
		return
	}

	c.JSON(201, show)
}

// UpdateShow updates an existing craft show
func (h *ShowHandler) UpdateShow(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid show ID"})
		return
	}

	var req ShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	show, err := h.showService.UpdateShow(uint(id), req.data())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrShowNotFound):
			c.JSON(404, gin.H{"error": "Show not found"})
		case errors.Is(err, services.ErrShowDates):
			c.JSON(400, gin.H{"error": "Show end date is before start date"})
		default:
			c.JSON(500, gin.H{"error": "Failed to update show"})
		}
		return
	}

	c.JSON(200, show)
}

// DeleteShow deletes a craft show
func (h *ShowHandler) DeleteShow(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid show ID"})
		return
	}

	if err := h.showService.DeleteShow(uint(id)); err != nil {
		if errors.Is(err, services.ErrShowNotFound) {
			c.JSON(404, gin.H{"error": "Show not found"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to delete show"})
		return
	}

	c.JSON(200, gin.H{"message": "Show deleted"})
}
