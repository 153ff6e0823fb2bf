package services

import (
	"errors"
	"strings"
	"time"

	"dreamcrafts/internal/models"

	"gorm.io/gorm"
)

var ErrArticleNotFound = errors.New("article not found")

type NewsArticleData struct {
	Title     string
	Slug      string
	Body      string
	Published bool
}

type NewsService struct{}

func NewNewsService() *NewsService {
	return &NewsService{}
}

// GetArticles returns all articles for the admin, newest first.
func (s *NewsService) GetArticles() ([]models.NewsArticle, error) {
	var articles []models.NewsArticle
	if err := models.DB.Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// GetPublishedArticles returns published articles for the public site,
// newest first, paginated.
func (s *NewsService) GetPublishedArticles(page, perPage int) ([]models.NewsArticle, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	var total int64
	if err := models.DB.Model(&models.NewsArticle{}).
		Where("published = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []models.NewsArticle
	if err := models.DB.Where("published = ?", true).
		Order("published_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

// GetArticle returns a specific article by ID
func (s *NewsService) GetArticle(id uint) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := models.DB.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// GetPublishedArticleBySlug returns a published article for the public site.
func (s *NewsService) GetPublishedArticleBySlug(slug string) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := models.DB.Where("slug = ? AND published = ?", slug, true).
		First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// CreateArticle creates a news article. Publishing stamps published_at once;
// the stamp survives later unpublish/republish cycles.
func (s *NewsService) CreateArticle(data *NewsArticleData) (*models.NewsArticle, error) {
	slug := strings.TrimSpace(data.Slug)
	if slug == "" {
		slug = Slugify(data.Title)
	}

	var existing models.NewsArticle
	if err := models.DB.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrSlugExists
	}

	article := &models.NewsArticle{
		Title:     data.Title,
		Slug:      slug,
		Body:      data.Body,
		Published: data.Published,
	}
	if data.Published {
		now := time.Now()
		article.PublishedAt = &now
	}

	if err := models.DB.Create(article).Error; err != nil {
		return nil, err
	}

	return article, nil
}

// UpdateArticle updates an existing article
func (s *NewsService) UpdateArticle(id uint, data *NewsArticleData) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := models.DB.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	slug := strings.TrimSpace(data.Slug)
	if slug == "" {
		slug = Slugify(data.Title)
	}

	if slug != article.Slug {
		var existing models.NewsArticle
		if err := models.DB.Where("slug = ? AND id != ?", slug, id).First(&existing).Error; err == nil {
			return nil, ErrSlugExists
		}
	}

	article.Title = data.Title
	article.Slug = slug
	article.Body = data.Body
	if data.Published && article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
	}
	article.Published = data.Published

	if err := models.DB.Save(&article).Error; err != nil {
		return nil, err
	}

	return &article, nil
}

// DeleteArticle deletes an article
func (s *NewsService) DeleteArticle(id uint) error {
	var article models.NewsArticle
	if err := models.DB.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return err
	}

	return models.DB.Delete(&article).Error
}
