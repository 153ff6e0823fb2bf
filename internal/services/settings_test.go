package services

import (
	"testing"

	"dreamcrafts/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaultsAndOverrides(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	settings := NewSettingsService()

	value, err := settings.Get("site_title")
	require.NoError(t, err)
	assert.Equal(t, "DreamCrafts", value)

	require.NoError(t, settings.Set("site_title", "Dream Crafts Studio"))

	value, err = settings.Get("site_title")
	require.NoError(t, err)
	assert.Equal(t, "Dream Crafts Studio", value)

	// All() carries defaults for keys never written
	all, err := settings.All()
	require.NoError(t, err)
	assert.Equal(t, "Dream Crafts Studio", all["site_title"])
	assert.Equal(t, "#7c5cbf", all["accent_color"])
}

func TestSettingsValidation(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	settings := NewSettingsService()

	assert.ErrorIs(t, settings.Set("no_such_key", "x"), ErrUnknownSetting)
	assert.ErrorIs(t, settings.Set("site_title", "   "), ErrInvalidSetting)
	assert.ErrorIs(t, settings.Set("accent_color", "purple"), ErrInvalidSetting)
	assert.ErrorIs(t, settings.Set("accent_color", "#12345"), ErrInvalidSetting)
	assert.ErrorIs(t, settings.Set("news_per_page", "0"), ErrInvalidSetting)
	assert.ErrorIs(t, settings.Set("news_per_page", "fifty"), ErrInvalidSetting)
	assert.ErrorIs(t, settings.Set("show_prices", "maybe"), ErrInvalidSetting)
	assert.ErrorIs(t, settings.Set("contact_email", "not an email"), ErrInvalidSetting)

	assert.NoError(t, settings.Set("accent_color", "#A1B2C3"))
	assert.NoError(t, settings.Set("news_per_page", "25"))
	assert.NoError(t, settings.Set("show_prices", "false"))
	assert.NoError(t, settings.Set("contact_email", "hello@dreamcrafts.example"))
	assert.NoError(t, settings.Set("contact_email", ""))
}

func TestSettingsSetUpdatesExistingRow(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	settings := NewSettingsService()

	require.NoError(t, settings.Set("tagline", "Prints for every wall"))
	require.NoError(t, settings.Set("tagline", "Crafts for every home"))

	// The second write found the existing row instead of inserting a
	// duplicate; the lookup must survive every supported dialect, so it
	// cannot name the key column in a raw condition
	var rows []models.SiteSetting
	require.NoError(t, models.DB.Find(&rows, &models.SiteSetting{Key: "tagline"}).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Crafts for every home", rows[0].Value)
}

func TestSettingsCacheInvalidation(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	writer := NewSettingsService()
	reader := writer

	// Warm the cache
	_, err := reader.All()
	require.NoError(t, err)

	require.NoError(t, writer.Set("banner_text", "Holiday market this weekend!"))

	// The write invalidated the snapshot; the next read sees the new value
	value, err := reader.Get("banner_text")
	require.NoError(t, err)
	assert.Equal(t, "Holiday market this weekend!", value)

	// A second service instance reads through to the same rows after an
	// explicit invalidation
	other := NewSettingsService()
	other.Invalidate()
	value, err = other.Get("banner_text")
	require.NoError(t, err)
	assert.Equal(t, "Holiday market this weekend!", value)
}
