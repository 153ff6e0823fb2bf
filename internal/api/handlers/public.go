package handlers

import (
	"errors"
	"strconv"

	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated read side of the site: featured
// prints, upcoming shows and published news.
type PublicHandler struct {
	printService *services.PrintService
	showService  *services.CraftShowService
	newsService  *services.NewsService
	settings     *services.SettingsService
}

func NewPublicHandler(
	printService *services.PrintService,
	showService *services.CraftShowService,
	newsService *services.NewsService,
	settings *services.SettingsService,
) *PublicHandler {
	return &PublicHandler{
		printService: printService,
		showService:  showService,
		newsService:  newsService,
		settings:     settings,
	}
}

// GetPrints returns all prints, featured first
func (h *PublicHandler) GetPrints(c *gin.Context) {
	prints, err := h.printService.GetPrints()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get prints"})
		return
	}

	c.JSON(200, gin.H{"prints": prints})
}

// GetPrint returns one print
func (h *PublicHandler) GetPrint(c *gin.Context) {
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

// GetShows returns upcoming shows
func (h *PublicHandler) GetShows(c *gin.Context) {
	shows, err := h.showService.GetUpcomingShows()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get shows"})
		return
	}

	c.JSON(200, gin.H{"shows": shows})
}

// GetNews returns published articles, paginated. Page size comes from the
// news_per_page site setting.
func (h *PublicHandler) GetNews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	perPage := 10
	if raw, err := h.settings.Get("news_per_page"); err == nil {
		if n, err := strconv.Atoi(raw); err == nil {
			perPage = n
		}
	}

	articles, total, err := h.newsService.GetPublishedArticles(page, perPage)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get news"})
		return
	}

	c.JSON(200, gin.H{
		"articles": articles,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// GetNewsArticle returns one published article by slug
func (h *PublicHandler) GetNewsArticle(c *gin.Context) {
	article, err := h.newsService.GetPublishedArticleBySlug(c.Param("slug"))
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

// GetSiteInfo returns the public slice of the settings registry.
func (h *PublicHandler) GetSiteInfo(c *gin.Context) {
	settings, err := h.settings.All()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get site info"})
		return
	}

	c.JSON(200, gin.H{
		"site_title":   settings["site_title"],
		"tagline":      settings["tagline"],
		"accent_color": settings["accent_color"],
		"banner_text":  settings["banner_text"],
	})
}
