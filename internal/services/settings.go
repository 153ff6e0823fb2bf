package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"dreamcrafts/internal/models"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting value")
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// settingDef describes one key of the site settings registry: its default
// and its validator. The table drives both reads (defaults for unset keys)
// and writes (rejection of bad values).
type settingDef struct {
	Default  string
	Validate func(value string) error
}

var settingDefs = map[string]settingDef{
	"site_title": {
		Default: "DreamCrafts",
		Validate: func(v string) error {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: site_title must not be empty", ErrInvalidSetting)
			}
			return nil
		},
	},
	"tagline": {
		Default:  "Handmade prints and crafts",
		Validate: func(v string) error { return nil },
	},
	"accent_color": {
		Default: "#7c5cbf",
		Validate: func(v string) error {
			if !hexColorRe.MatchString(v) {
				return fmt.Errorf("%w: accent_color must be a #rrggbb color", ErrInvalidSetting)
			}
			return nil
		},
	},
	"banner_text": {
		Default:  "",
		Validate: func(v string) error { return nil },
	},
	"contact_email": {
		Default: "",
		Validate: func(v string) error {
			if v == "" {
				return nil
			}
			if !strings.Contains(v, "@") || strings.ContainsAny(v, " \t") {
				return fmt.Errorf("%w: contact_email must be an email address", ErrInvalidSetting)
			}
			return nil
		},
	},
	"news_per_page": {
		Default: "10",
		Validate: func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 50 {
				return fmt.Errorf("%w: news_per_page must be 1-50", ErrInvalidSetting)
			}
			return nil
		},
	},
	"show_prices": {
		Default: "true",
		Validate: func(v string) error {
			if _, err := strconv.ParseBool(v); err != nil {
				return fmt.Errorf("%w: show_prices must be a boolean", ErrInvalidSetting)
			}
			return nil
		},
	},
}

// SettingsService reads and writes the site settings registry. Reads come
// from a cached snapshot; any write invalidates it.
type SettingsService struct {
	mu    sync.RWMutex
	cache map[string]string
}

func NewSettingsService() *SettingsService {
	return &SettingsService{}
}

// All returns the full settings map, defaults filled in for unset keys.
func (s *SettingsService) All() (map[string]string, error) {
	s.mu.RLock()
	if s.cache != nil {
		snapshot := make(map[string]string, len(s.cache))
		for k, v := range s.cache {
			snapshot[k] = v
		}
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	var rows []models.SiteSetting
	if err := models.DB.Find(&rows).Error; err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(settingDefs))
	for key, def := range settingDefs {
		settings[key] = def.Default
	}
	for _, row := range rows {
		if _, known := settingDefs[row.Key]; known {
			settings[row.Key] = row.Value
		}
	}

	s.mu.Lock()
	s.cache = settings
	s.mu.Unlock()

	snapshot := make(map[string]string, len(settings))
	for k, v := range settings {
		snapshot[k] = v
	}
	return snapshot, nil
}

// Get returns one setting value.
func (s *SettingsService) Get(key string) (string, error) {
	if _, known := settingDefs[key]; !known {
		return "", ErrUnknownSetting
	}

	all, err := s.All()
	if err != nil {
		return "", err
	}
	return all[key], nil
}

// Set validates and persists one setting, then invalidates the cache.
func (s *SettingsService) Set(key, value string) error {
	def, known := settingDefs[key]
	if !known {
		return ErrUnknownSetting
	}
	if err := def.Validate(value); err != nil {
		return err
	}

	// Struct condition so the dialector quotes the column: "key" is a
	// reserved word in MySQL and a raw string condition would not parse.
	var row models.SiteSetting
	err := models.DB.Where(&models.SiteSetting{Key: key}).First(&row).Error
	if err == nil {
		row.Value = value
		err = models.DB.Save(&row).Error
	} else {
		err = models.DB.Create(&models.SiteSetting{Key: key, Value: value}).Error
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()

	return nil
}

// Invalidate drops the cached snapshot.
func (s *SettingsService) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}
