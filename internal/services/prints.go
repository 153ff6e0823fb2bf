package services

import (
	"errors"
	"strings"

	"dreamcrafts/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPrintNotFound = errors.New("print not found")
	ErrSlugExists    = errors.New("slug already exists")
)

type PrintData struct {
	Title       string
	Slug        string
	Description string
	PriceCents  int
	ImageURL    string
	Featured    bool
	SortOrder   int
}

type PrintService struct{}

func NewPrintService() *PrintService {
	return &PrintService{}
}

// GetPrints returns all prints, featured first, then by sort order.
func (s *PrintService) GetPrints() ([]models.Print, error) {
	var prints []models.Print
	if err := models.DB.Order("featured DESC, sort_order ASC, id ASC").Find(&prints).Error; err != nil {
		return nil, err
	}
	return prints, nil
}

// GetFeaturedPrints returns the prints shown on the home page.
func (s *PrintService) GetFeaturedPrints() ([]models.Print, error) {
	var prints []models.Print
	if err := models.DB.Where("featured = ?", true).
		Order("sort_order ASC, id ASC").Find(&prints).Error; err != nil {
		return nil, err
	}
	return prints, nil
}

// GetPrint returns a specific print by ID
func (s *PrintService) GetPrint(id uint) (*models.Print, error) {
	var print models.Print
	if err := models.DB.First(&print, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrintNotFound
		}
		return nil, err
	}
	return &print, nil
}

// CreatePrint creates a new print
func (s *PrintService) CreatePrint(data *PrintData) (*models.Print, error) {
	slug := strings.TrimSpace(data.Slug)
	if slug == "" {
		slug = Slugify(data.Title)
	}

	var existing models.Print
	if err := models.DB.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrSlugExists
	}

	print := &models.Print{
		Title:       data.Title,
		Slug:        slug,
		Description: data.Description,
		PriceCents:  data.PriceCents,
		ImageURL:    data.ImageURL,
		Featured:    data.Featured,
		SortOrder:   data.SortOrder,
	}

	if err := models.DB.Create(print).Error; err != nil {
		return nil, err
	}

	return print, nil
}

// UpdatePrint updates an existing print
func (s *PrintService) UpdatePrint(id uint, data *PrintData) (*models.Print, error) {
	var print models.Print
	if err := models.DB.First(&print, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrintNotFound
		}
		return nil, err
	}

	slug := strings.TrimSpace(data.Slug)
	if slug == "" {
		slug = Slugify(data.Title)
	}

	// Check if slug is taken by another print
	if slug != print.Slug {
		var existing models.Print
		if err := models.DB.Where("slug = ? AND id != ?", slug, id).First(&existing).Error; err == nil {
			return nil, ErrSlugExists
		}
	}

	print.Title = data.Title
	print.Slug = slug
	print.Description = data.Description
	print.PriceCents = data.PriceCents
	print.ImageURL = data.ImageURL
	print.Featured = data.Featured
	print.SortOrder = data.SortOrder

	if err := models.DB.Save(&print).Error; err != nil {
		return nil, err
	}

	return &print, nil
}

// DeletePrint deletes a print
func (s *PrintService) DeletePrint(id uint) error {
	var print models.Print
	if err := models.DB.First(&print, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPrintNotFound
		}
		return err
	}

	return models.DB.Delete(&print).Error
}

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
