package services

import (
	"fmt"
	"time"

	"dreamcrafts/internal/config"
	"dreamcrafts/internal/models"
)

// Thresholds for the soft suspicion heuristic. These only generate a
// security event; they never block a request.
const (
	suspiciousWindow        = time.Hour
	suspiciousRequestCount  = 20
	suspiciousUsernameCount = 5
)

// SuspicionReport is the result of the soft heuristic over the trailing hour.
type SuspicionReport struct {
	RapidRequests     bool `json:"rapid_requests"`
	MultipleUsernames bool `json:"multiple_usernames"`
	RequestCount      int  `json:"request_count"`
	UsernameCount     int  `json:"username_count"`
}

// RateLimiterService is pure policy over Attempt Ledger reads. It holds no
// mutable state of its own.
type RateLimiterService struct {
	cfg      *config.Config
	attempts *AttemptLedgerService
	events   *EventLogService
}

func NewRateLimiterService(cfg *config.Config, attempts *AttemptLedgerService, events *EventLogService) *RateLimiterService {
	return &RateLimiterService{
		cfg:      cfg,
		attempts: attempts,
		events:   events,
	}
}

func (s *RateLimiterService) window() time.Duration {
	return time.Duration(s.cfg.Security.RateLimitWindow) * time.Second
}

// IsRateLimited reports whether ip has reached the failure threshold inside
// the trailing window. Only failures count; a success neither resets nor
// decrements the window. On a storage error the limiter fails open: the
// outage is logged as a security event and the attempt is allowed through.
func (s *RateLimiterService) IsRateLimited(ipAddress, username string) bool {
	since := time.Now().Add(-s.window())

	failures, err := s.attempts.CountFailures(ipAddress, since)
	if err != nil {
		s.events.Log(models.EventStorageFailure, ipAddress, nil,
			"rate limit check failed, allowing request", models.SeverityError)
		return false
	}

	return failures >= s.cfg.Security.MaxLoginAttempts
}

// CheckSuspicious evaluates the soft heuristic for ip over the trailing hour
// and logs a warning event when a threshold is crossed. Advisory only.
func (s *RateLimiterService) CheckSuspicious(ipAddress string) SuspicionReport {
	since := time.Now().Add(-suspiciousWindow)
	report := SuspicionReport{}

	requests, err := s.attempts.CountAll(ipAddress, since)
	if err != nil {
		s.events.Log(models.EventStorageFailure, ipAddress, nil,
			"suspicious activity check failed", models.SeverityError)
		return report
	}
	usernames, err := s.attempts.CountDistinctUsernames(ipAddress, since)
	if err != nil {
		s.events.Log(models.EventStorageFailure, ipAddress, nil,
			"suspicious activity check failed", models.SeverityError)
		return report
	}

	report.RequestCount = requests
	report.UsernameCount = usernames
	report.RapidRequests = requests > suspiciousRequestCount
	report.MultipleUsernames = usernames > suspiciousUsernameCount

	if report.RapidRequests || report.MultipleUsernames {
		s.events.Log(models.EventSuspiciousPattern, ipAddress, nil,
			fmt.Sprintf("requests=%d distinct_usernames=%d in last hour", requests, usernames),
			models.SeverityWarning)
	}

	return report
}
