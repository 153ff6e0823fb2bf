package handlers

import (
	"errors"
	"strconv"

	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

type PrintHandler struct {
	printService *services.PrintService
}

func NewPrintHandler(printService *services.PrintService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

type PrintRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PriceCents  int    `json:"price_cents" binding:"min=0"`
	ImageURL    string `json:"image_url"`
	Featured    bool   `json:"featured"`
	SortOrder   int    `json:"sort_order"`
}

func (r *PrintRequest) data() *services.PrintData {
	return &services.PrintData{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		ImageURL:    r.ImageURL,
		Featured:    r.Featured,
		SortOrder:   r.SortOrder,
	}
}

// GetPrints returns all prints
func (h *PrintHandler) GetPrints(c *gin.Context) {
	prints, err := h.printService.GetPrints()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get prints"})
		return
	}

	c.JSON(200, gin.H{"prints": prints})
}

// GetPrint returns a specific print
func (h *PrintHandler) GetPrint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid print ID"})
		return
	}

	print, err := h.printService.GetPrint(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrPrintNotFound) {
			c.JSON(404, gin.H{"error": "Print not found"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to get print"})
		return
	}

	c.JSON(200, print)
}

// CreatePrint creates a new print
func (h *PrintHandler) CreatePrint(c *gin.Context) {
	var req PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	print, err := h.printService.CreatePrint(req.data())
	if err != nil {
		if errors.Is(err, services.ErrSlugExists) {
			c.JSON(409, gin.H{"error": "Slug already exists"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to create print"})
		return
	}

	c.JSON(201, print)
}

// UpdatePrint updates an existing print
func (h *PrintHandler) UpdatePrint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid print ID"})
		return
	}

	var req PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	print, err := h.printService.UpdatePrint(uint(id), req.data())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPrintNotFound):
			c.JSON(404, gin.H{"error": "Print not found"})
		case errors.Is(err, services.ErrSlugExists):
			c.JSON(409, gin.H{"error": "Slug already exists"})
		default:
			c.JSON(500, gin.H{"error": "Failed to update print"})
		}
		return
	}

	c.JSON(200, print)
}

// DeletePrint deletes a print
func (h *PrintHandler) DeletePrint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid print ID"})
		return
	}

	if err := h.printService.DeletePrint(uint(id)); err != nil {
		if errors.Is(err, services.ErrPrintNotFound) {
			c.JSON(404, gin.H{"error": "Print not found"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to delete print"})
		return
	}

	c.JSON(200, gin.H{"message": "Print deleted"})
}
