package services

import (
	"log"
	"time"

	"dreamcrafts/internal/models"
)

// AttemptLedgerService is the append-only record of login attempts. Writes
// never surface errors to the caller; availability wins over strict audit
// completeness.
type AttemptLedgerService struct{}

func NewAttemptLedgerService() *AttemptLedgerService {
	return &AttemptLedgerService{}
}

// Record appends one attempt, success or failure.
func (s *AttemptLedgerService) Record(ipAddress, username string, success bool, userAgent string) {
	attempt := &models.LoginAttempt{
		IPAddress:   ipAddress,
		Username:    username,
		Success:     success,
		AttemptTime: time.Now(),
		UserAgent:   userAgent,
	}

	if err := models.DB.Create(attempt).Error; err != nil {
		log.Printf("login attempt write failed (ip=%s): %v", ipAddress, err)
	}
}

// CountFailures counts failed attempts from ip since the given time.
func (s *AttemptLedgerService) CountFailures(ipAddress string, since time.Time) (int, error) {
	var count int64
	err := models.DB.Model(&models.LoginAttempt{}).
		Where("ip_address = ? AND success = ? AND attempt_time >= ?", ipAddress, false, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountDistinctUsernames counts distinct submitted usernames from ip since
// the given time.
func (s *AttemptLedgerService) CountDistinctUsernames(ipAddress string, since time.Time) (int, error) {
	var count int64
	err := models.DB.Model(&models.LoginAttempt{}).
		Where("ip_address = ? AND attempt_time >= ?", ipAddress, since).
		Distinct("username").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountAll counts all attempts from ip since the given time.
func (s *AttemptLedgerService) CountAll(ipAddress string, since time.Time) (int, error) {
	var count int64
	err := models.DB.Model(&models.LoginAttempt{}).
		Where("ip_address = ? AND attempt_time >= ?", ipAddress, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// PurgeOlderThan deletes attempts older than cutoff. Idempotent; safe to run
// concurrently with writes.
func (s *AttemptLedgerService) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res := models.DB.Where("attempt_time < ?", cutoff).Delete(&models.LoginAttempt{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
