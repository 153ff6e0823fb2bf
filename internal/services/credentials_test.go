package services

import (
	"testing"

	"dreamcrafts/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAdministrator(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	credentials := NewCredentialStoreService(cfg)

	admin, err := credentials.CreateAdministrator("admin", "long-enough")
	require.NoError(t, err)
	assert.NotZero(t, admin.ID)
	assert.NotEqual(t, "long-enough", admin.PasswordHash)

	// Duplicate username
	_, err = credentials.CreateAdministrator("admin", "long-enough")
	assert.ErrorIs(t, err, ErrAdminExists)

	// Too-short password and empty username
	_, err = credentials.CreateAdministrator("second", "seven77")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	_, err = credentials.CreateAdministrator("  ", "long-enough")
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestVerifyPassword(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	credentials := NewCredentialStoreService(cfg)
	admin, err := credentials.CreateAdministrator("admin", "correct-horse")
	require.NoError(t, err)

	assert.True(t, credentials.VerifyPassword(admin.PasswordHash, "correct-horse"))
	assert.False(t, credentials.VerifyPassword(admin.PasswordHash, "wrong-horse"))

	// The dummy verification burns work but never matches
	assert.False(t, credentials.VerifyDummy("correct-horse"))
	assert.False(t, credentials.VerifyDummy(""))
}

func TestUpdatePassword(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	credentials := NewCredentialStoreService(cfg)
	admin, err := credentials.CreateAdministrator("admin", "old-password")
	require.NoError(t, err)

	// 7 characters fails validation, nothing changes
	err = credentials.UpdatePassword(admin.ID, "seven77")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	stored, err := credentials.FindByUsername("admin")
	require.NoError(t, err)
	assert.True(t, credentials.VerifyPassword(stored.PasswordHash, "old-password"))

	// 8 characters succeeds; old password stops working
	require.NoError(t, credentials.UpdatePassword(admin.ID, "eight888"))

	stored, err = credentials.FindByUsername("admin")
	require.NoError(t, err)
	assert.True(t, credentials.VerifyPassword(stored.PasswordHash, "eight888"))
	assert.False(t, credentials.VerifyPassword(stored.PasswordHash, "old-password"))

	// Unknown administrator
	err = credentials.UpdatePassword(9999, "eight888")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestSeedDefaultAdmin(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	cfg.DefaultAdmin.Username = "admin"
	cfg.DefaultAdmin.Password = "seed-password"

	credentials := NewCredentialStoreService(cfg)
	require.NoError(t, credentials.SeedDefaultAdmin())

	// Second run is a no-op once an account exists
	require.NoError(t, credentials.SeedDefaultAdmin())

	var count int64
	models.DB.Model(&models.Administrator{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
