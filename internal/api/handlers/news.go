package handlers

import (
	"errors"
	"strconv"

	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

type NewsHandler struct {
	newsService *services.NewsService
}

func NewNewsHandler(newsService *services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

type ArticleRequest struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

func (r *ArticleRequest) data() *services.NewsArticleData {
	return &services.NewsArticleData{
		Title:     r.Title,
		Slug:      r.Slug,
		Body:      r.Body,
		Published: r.Published,
	}
}

// GetArticles returns all articles including drafts
func (h *NewsHandler) GetArticles(c *gin.Context) {
	articles, err := h.newsService.GetArticles()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get articles"})
		return
	}

	c.JSON(200, gin.H{"articles": articles})
}

// GetArticle returns a specific article
func (h *NewsHandler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid article ID"})
		return
	}

	article, err := h.newsService.GetArticle(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			c.JSON(404, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to get article"})
		return
	}

	c.JSON(200, article)
}

// CreateArticle creates a news article
func (h *NewsHandler) CreateArticle(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	article, err := h.newsService.CreateArticle(req.data())
	if err != nil {
		if errors.Is(err, services.ErrSlugExists) {
			c.JSON(409, gin.H{"error": "Slug already exists"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to create article"})
		return
	}

	c.JSON(201, article)
}

// UpdateArticle updates an existing article
func (h *NewsHandler) UpdateArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid article ID"})
		return
	}

	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	article, err := h.newsService.UpdateArticle(uint(id), req.data())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrArticleNotFound):
			c.JSON(404, gin.H{"error": "Article not found"})
		case errors.Is(err, services.ErrSlugExists):
			c.JSON(409, gin.H{"error": "Slug already exists"})
		default:
			c.JSON(500, gin.H{"error": "Failed to update article"})
		}
		return
	}

	c.JSON(200, article)
}

// DeleteArticle deletes an article
func (h *NewsHandler) DeleteArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid article ID"})
		return
	}

	if err := h.newsService.DeleteArticle(uint(id)); err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			c.JSON(404, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to delete article"})
		return
	}

	c.JSON(200, gin.H{"message": "Article deleted"})
}
