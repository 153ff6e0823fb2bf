package models

import (
	"time"
)

// Print is a featured product shown on the public site.
type Print struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	PriceCents  int       `json:"price_cents" gorm:"not null;default:0"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(500)"`
	Featured    bool      `json:"featured" gorm:"index;default:false"`
	SortOrder   int       `json:"sort_order" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CraftShow is a market or fair appearance. Upcoming/past is derived from
// EndsOn at query time, never stored.
type CraftShow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Venue     string    `json:"venue" gorm:"type:varchar(255)"`
	City      string    `json:"city" gorm:"type:varchar(100)"`
	StartsOn  time.Time `json:"starts_on" gorm:"index;not null"`
	EndsOn    time.Time `json:"ends_on" gorm:"index;not null"`
	Booth     string    `json:"booth" gorm:"type:varchar(50)"`
	URL       string    `json:"url" gorm:"type:varchar(500)"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewsArticle struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Slug        string     `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Body        string     `json:"body" gorm:"type:text"`
	Published   bool       `json:"published" gorm:"index;default:false"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SiteSetting is one key of the site design/settings registry.
type SiteSetting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"type:varchar(100);uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}
