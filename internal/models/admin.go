package models

import (
	"time"
)

type Administrator struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// LoginAttempt is one row per login POST, success or failure. Rows are never
// updated; old rows are purged by the maintenance sweep.
type LoginAttempt struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	IPAddress   string    `json:"ip_address" gorm:"type:varchar(45);index;not null"`
	Username    string    `json:"username" gorm:"type:varchar(255)"` // as submitted, may not exist
	Success     bool      `json:"success" gorm:"not null"`
	AttemptTime time.Time `json:"attempt_time" gorm:"index;not null"`
	UserAgent   string    `json:"user_agent" gorm:"type:varchar(500)"`
}

type SecurityEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   string    `json:"event_id" gorm:"type:varchar(36);uniqueIndex"`
	EventType string    `json:"event_type" gorm:"type:varchar(50);index;not null"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	Details   string    `json:"details" gorm:"type:text"`
	Severity  string    `json:"severity" gorm:"type:varchar(10);index;not null"` // info, warning, error, critical
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// Session is the server-side session record. The cookie carries only the
// Token; everything that governs validity lives here.
type Session struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	Token            string        `json:"-" gorm:"type:varchar(36);uniqueIndex;not null"`
	UserID           uint          `json:"user_id" gorm:"not null;index"`
	Username         string        `json:"username" gorm:"type:varchar(255)"`
	CSRFToken        string        `json:"-" gorm:"type:varchar(64)"`
	RedirectTarget   string        `json:"-" gorm:"type:varchar(500)"`
	LoginTime        time.Time     `json:"login_time" gorm:"not null"`
	LastActivity     time.Time     `json:"last_activity" gorm:"index;not null"`
	LastRegeneration time.Time     `json:"last_regeneration" gorm:"not null"`
	CreatedAt        time.Time     `json:"created_at"`
	User             Administrator `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Security event types recorded by the auth core.
const (
	EventLoginSuccess      = "login_success"
	EventLoginFailure      = "login_failure"
	EventRateLimitExceeded = "rate_limit_exceeded"
	EventSuspiciousPattern = "suspicious_pattern"
	EventCSRFFailure       = "csrf_failure"
	EventStorageFailure    = "storage_failure"
	EventInternalError     = "internal_error"
	EventLogout            = "logout"
	EventPasswordChanged   = "password_changed"
)

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)
