package services

import (
	"errors"
	"time"

	"dreamcrafts/internal/models"

	"gorm.io/gorm"
)

var (
	ErrShowNotFound = errors.New("craft show not found")
	ErrShowDates    = errors.New("show end date is before start date")
)

type CraftShowData struct {
	Name     string
	Venue    string
	City     string
	StartsOn time.Time
	EndsOn   time.Time
	Booth    string
	URL      string
	Notes    string
}

type CraftShowService struct{}

func NewCraftShowService() *CraftShowService {
	return &CraftShowService{}
}

// GetShows returns all shows ordered by start date, newest first.
func (s *CraftShowService) GetShows() ([]models.CraftShow, error) {
	var shows []models.CraftShow
	if err := models.DB.Order("starts_on DESC").Find(&shows).Error; err != nil {
		return nil, err
	}
	return shows, nil
}

// GetUpcomingShows returns shows that have not yet ended, soonest first.
func (s *CraftShowService) GetUpcomingShows() ([]models.CraftShow, error) {
	var shows []models.CraftShow
	if err := models.DB.Where("ends_on >= ?", time.Now()).
		Order("starts_on ASC").Find(&shows).Error; err != nil {
		return nil, err
	}
	return shows, nil
}

// GetShow returns a specific show by ID
func (s *CraftShowService) GetShow(id uint) (*models.CraftShow, error) {
	var show models.CraftShow
	if err := models.DB.First(&show, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

// CreateShow creates a new craft show
func (s *CraftShowService) CreateShow(data *CraftShowData) (*models.CraftShow, error) {
	if data.EndsOn.Before(data.StartsOn) {
		return nil, ErrShowDates
	}

	show := &models.CraftShow{
		Name:     data.Name,
		Venue:    data.Venue,
		City:     data.City,
		StartsOn: data.StartsOn,
		EndsOn:   data.EndsOn,
		Booth:    data.Booth,
		URL:      data.URL,
		Notes:    data.Notes,
	}

	if err := models.DB.Create(show).Error; err != nil {
		return nil, err
	}

	return show, nil
}

// UpdateShow updates an existing craft show
func (s *CraftShowService) UpdateShow(id uint, data *CraftShowData) (*models.CraftShow, error) {
	var show models.CraftShow
	if err := models.DB.First(&show, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}

	if data.EndsOn.Before(data.StartsOn) {
		return nil, ErrShowDates
	}

	show.Name = data.Name
	show.Venue = data.Venue
	show.City = data.City
	show.StartsOn = data.StartsOn
	show.EndsOn = data.EndsOn
	show.Booth = data.Booth
	show.URL = data.URL
	show.Notes = data.Notes

	if err := models.DB.Save(&show).Error; err != nil {
		return nil, err
	}

	return &show, nil
}

// DeleteShow deletes a craft show
func (s *CraftShowService) DeleteShow(id uint) error {
	var show models.CraftShow
	if err := models.DB.First(&show, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShowNotFound
		}
		return err
	}

	return models.DB.Delete(&show).Error
}
