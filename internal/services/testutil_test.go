package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"dreamcrafts/internal/config"
	"dreamcrafts/internal/models"

	"github.com/stretchr/testify/require"
)

// setupTestDB initializes a test database
func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/dreamcrafts_svc_test_%d.db", tmpDir, time.Now().UnixNano())

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: testDBPath,
			},
		},
		Session: config.SessionConfig{
			Secret:            "test-secret-key-for-testing-only",
			TimeoutSeconds:    3600,
			RegenerateSeconds: 300,
			CookieName:        "dreamcrafts_session",
		},
		Security: config.SecurityConfig{
			BcryptCost:        4,
			MaxLoginAttempts:  5,
			RateLimitWindow:   900,
			PasswordMinLength: 8,
		},
	}

	err := models.InitDB(cfg)
	require.NoError(t, err)

	return cfg
}

// cleanupTestDB cleans up test database
func cleanupTestDB(t *testing.T, cfg *config.Config) {
	if models.DB != nil {
		sqlDB, err := models.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
		if cfg != nil && cfg.Database.Type == "sqlite" {
			os.Remove(cfg.Database.SQLite.Path)
		}
	}
	models.DB = nil
}

// recordAttemptAt inserts a ledger row with an explicit timestamp
func recordAttemptAt(t *testing.T, ip, username string, success bool, at time.Time) {
	attempt := &models.LoginAttempt{
		IPAddress:   ip,
		Username:    username,
		Success:     success,
		AttemptTime: at,
	}
	require.NoError(t, models.DB.Create(attempt).Error)
}
