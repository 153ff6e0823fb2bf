package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Session      SessionConfig      `yaml:"session"`
	Security     SecurityConfig     `yaml:"security"`
	Sentry       SentryConfig       `yaml:"sentry"`
	DefaultAdmin DefaultAdminConfig `yaml:"default_admin"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
	// AllowedOrigins lists the frontend origins that may make credentialed
	// cross-origin requests. Same-origin deployments can leave it empty.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Type   string       `yaml:"type"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"`
}

type SessionConfig struct {
	// Secret signs the session cookie. Must be set in production.
	Secret string `yaml:"secret"`
	// TimeoutSeconds is the sliding inactivity timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// RegenerateSeconds is how often the session id is rotated.
	RegenerateSeconds int    `yaml:"regenerate_seconds"`
	CookieName        string `yaml:"cookie_name"`
	CookieSecure      bool   `yaml:"cookie_secure"`
}

type SecurityConfig struct {
	BcryptCost        int `yaml:"bcrypt_cost"`
	MaxLoginAttempts  int `yaml:"max_login_attempts"`
	RateLimitWindow   int `yaml:"rate_limit_window_seconds"`
	PasswordMinLength int `yaml:"password_min_length"`
}

type SentryConfig struct {
	DSN string `yaml:"dsn"`
}

type DefaultAdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

var Global *Config

// Load reads the configuration file and applies environment overrides.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	// Ensure data directory exists for SQLite
	if cfg.Database.Type == "sqlite" {
		dataDir := filepath.Dir(cfg.Database.SQLite.Path)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Validate MySQL configuration if MySQL is selected
	if cfg.Database.Type == "mysql" {
		if cfg.Database.MySQL.Username == "" {
			return nil, fmt.Errorf("MySQL username is required")
		}
		if cfg.Database.MySQL.Database == "" {
			return nil, fmt.Errorf("MySQL database name is required")
		}
	}

	Global = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Session.TimeoutSeconds <= 0 {
		cfg.Session.TimeoutSeconds = 3600
	}
	if cfg.Session.RegenerateSeconds <= 0 {
		cfg.Session.RegenerateSeconds = 300
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "dreamcrafts_session"
	}
	if cfg.Security.BcryptCost <= 0 {
		cfg.Security.BcryptCost = 12
	}
	if cfg.Security.MaxLoginAttempts <= 0 {
		cfg.Security.MaxLoginAttempts = 5
	}
	if cfg.Security.RateLimitWindow <= 0 {
		cfg.Security.RateLimitWindow = 900
	}
	if cfg.Security.PasswordMinLength <= 0 {
		cfg.Security.PasswordMinLength = 8
	}
}

func applyEnv(cfg *Config) {
	if secret := os.Getenv("DREAMCRAFTS_SESSION_SECRET"); secret != "" {
		cfg.Session.Secret = secret
	}

	if origins := os.Getenv("DREAMCRAFTS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, origin)
			}
		}
	}

	if dbType := os.Getenv("DREAMCRAFTS_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}

	if dbPath := os.Getenv("DREAMCRAFTS_DB_PATH"); dbPath != "" {
		cfg.Database.SQLite.Path = dbPath
	}

	if mysqlHost := os.Getenv("DREAMCRAFTS_MYSQL_HOST"); mysqlHost != "" {
		cfg.Database.MySQL.Host = mysqlHost
	}

	if mysqlUser := os.Getenv("DREAMCRAFTS_MYSQL_USER"); mysqlUser != "" {
		cfg.Database.MySQL.Username = mysqlUser
	}

	if mysqlPass := os.Getenv("DREAMCRAFTS_MYSQL_PASSWORD"); mysqlPass != "" {
		cfg.Database.MySQL.Password = mysqlPass
	}

	if mysqlDB := os.Getenv("DREAMCRAFTS_MYSQL_DATABASE"); mysqlDB != "" {
		cfg.Database.MySQL.Database = mysqlDB
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		cfg.Sentry.DSN = dsn
	}

	if v := envInt("SESSION_TIMEOUT"); v > 0 {
		cfg.Session.TimeoutSeconds = v
	}
	if v := envInt("SESSION_REGENERATE_INTERVAL"); v > 0 {
		cfg.Session.RegenerateSeconds = v
	}
	if v := envInt("MAX_LOGIN_ATTEMPTS"); v > 0 {
		cfg.Security.MaxLoginAttempts = v
	}
	if v := envInt("LOGIN_RATE_LIMIT_WINDOW"); v > 0 {
		cfg.Security.RateLimitWindow = v
	}
	if v := envInt("PASSWORD_MIN_LENGTH"); v > 0 {
		cfg.Security.PasswordMinLength = v
	}
}

func envInt(name string) int {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
