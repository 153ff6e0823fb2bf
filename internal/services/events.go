package services

import (
	"log"

	"dreamcrafts/internal/models"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// EventLogService is the append-only security event stream. Writes are
// fire-and-forget: a failed insert falls back to the process log so that
// security logging never becomes an availability hazard.
type EventLogService struct{}

func NewEventLogService() *EventLogService {
	return &EventLogService{}
}

// Log records a security event. Never returns an error.
func (s *EventLogService) Log(eventType, ipAddress string, userID *uint, details, severity string) {
	event := &models.SecurityEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		IPAddress: ipAddress,
		UserID:    userID,
		Details:   details,
		Severity:  severity,
	}

	if err := models.DB.Create(event).Error; err != nil {
		log.Printf("security log write failed (type=%s severity=%s): %v", eventType, severity, err)
		sentry.CaptureException(err)
	}
}

// Recent returns the newest events, optionally filtered by severity.
func (s *EventLogService) Recent(limit int, severity string) ([]models.SecurityEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	q := models.DB.Order("created_at DESC").Limit(limit)
	if severity != "" {
		q = q.Where("severity = ?", severity)
	}

	var events []models.SecurityEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
