package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	mathrand "math/rand"
	"time"

	"dreamcrafts/internal/config"
	"dreamcrafts/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRateLimited        = errors.New("too many login attempts")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// purgeDenominator: roughly 1 in N validated requests triggers the ledger
// maintenance sweep instead of a dedicated timer.
const purgeDenominator = 50

// SessionAuthorityService owns the login/logout state machine, session
// rotation, timeout expiry and CSRF tokens. It is the only component that
// mutates session state.
type SessionAuthorityService struct {
	cfg         *config.Config
	credentials *CredentialStoreService
	attempts    *AttemptLedgerService
	limiter     *RateLimiterService
	events      *EventLogService
}

func NewSessionAuthorityService(
	cfg *config.Config,
	credentials *CredentialStoreService,
	attempts *AttemptLedgerService,
	limiter *RateLimiterService,
	events *EventLogService,
) *SessionAuthorityService {
	return &SessionAuthorityService{
		cfg:         cfg,
		credentials: credentials,
		attempts:    attempts,
		limiter:     limiter,
		events:      events,
	}
}

func (s *SessionAuthorityService) timeout() time.Duration {
	return time.Duration(s.cfg.Session.TimeoutSeconds) * time.Second
}

func (s *SessionAuthorityService) regenInterval() time.Duration {
	return time.Duration(s.cfg.Session.RegenerateSeconds) * time.Second
}

// Login runs the full login transaction: rate-limit gate, credential check,
// ledger and event writes, then session establishment. The rate-limit check
// runs strictly before any bcrypt work so limited IPs never cost a hash.
// Session creation is the last step; no earlier failure leaves a
// half-authenticated session behind.
func (s *SessionAuthorityService) Login(ipAddress, userAgent, username, password, redirectTarget string) (*models.Session, *models.Administrator, error) {
	s.limiter.CheckSuspicious(ipAddress)

	if s.limiter.IsRateLimited(ipAddress, username) {
		s.events.Log(models.EventRateLimitExceeded, ipAddress, nil,
			fmt.Sprintf("login blocked for username %q", username), models.SeverityWarning)
		return nil, nil, ErrRateLimited
	}

	admin, err := s.credentials.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			// Burn a hash so unknown usernames answer in the same time as
			// known ones with a wrong password.
			s.credentials.VerifyDummy(password)
			s.attempts.Record(ipAddress, username, false, userAgent)
			s.events.Log(models.EventLoginFailure, ipAddress, nil,
				fmt.Sprintf("failed login for %q", username), models.SeverityWarning)
			return nil, nil, ErrInvalidCredentials
		}
		s.events.Log(models.EventStorageFailure, ipAddress, nil,
			"credential lookup failed during login", models.SeverityCritical)
		return nil, nil, ErrStorageUnavailable
	}

	if !s.credentials.VerifyPassword(admin.PasswordHash, password) {
		s.attempts.Record(ipAddress, username, false, userAgent)
		s.events.Log(models.EventLoginFailure, ipAddress, &admin.ID,
			fmt.Sprintf("failed login for %q", username), models.SeverityWarning)
		return nil, nil, ErrInvalidCredentials
	}

	s.attempts.Record(ipAddress, username, true, userAgent)

	now := time.Now()
	session := &models.Session{
		Token:            uuid.NewString(),
		UserID:           admin.ID,
		Username:         admin.Username,
		RedirectTarget:   redirectTarget,
		LoginTime:        now,
		LastActivity:     now,
		LastRegeneration: now,
	}

	if err := models.DB.Create(session).Error; err != nil {
		s.events.Log(models.EventStorageFailure, ipAddress, &admin.ID,
			"session write failed during login", models.SeverityCritical)
		return nil, nil, ErrStorageUnavailable
	}

	s.events.Log(models.EventLoginSuccess, ipAddress, &admin.ID,
		fmt.Sprintf("successful login for %q", admin.Username), models.SeverityInfo)
	s.credentials.RecordLogin(admin.ID, now)

	return session, admin, nil
}

// Validate resolves a cookie value to a live session. Expiry is evaluated
// lazily here: a session idle past the timeout is destroyed as if logged out.
// While valid, last_activity slides forward and the session id is rotated
// once the regeneration interval has passed; rotated reports whether the
// caller must reissue the cookie.
func (s *SessionAuthorityService) Validate(cookieValue string) (session *models.Session, rotated bool, err error) {
	token, err := s.parseCookie(cookieValue)
	if err != nil {
		return nil, false, ErrSessionNotFound
	}

	var sess models.Session
	if err := models.DB.Where("token = ?", token).Preload("User").First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrSessionNotFound
		}
		return nil, false, ErrStorageUnavailable
	}

	now := time.Now()
	if now.Sub(sess.LastActivity) > s.timeout() {
		models.DB.Delete(&sess)
		return nil, false, ErrSessionExpired
	}

	updates := map[string]interface{}{"last_activity": now}
	if now.Sub(sess.LastRegeneration) > s.regenInterval() {
		sess.Token = uuid.NewString()
		sess.LastRegeneration = now
		updates["token"] = sess.Token
		updates["last_regeneration"] = now
		rotated = true
	}
	sess.LastActivity = now

	if err := models.DB.Model(&models.Session{}).Where("id = ?", sess.ID).Updates(updates).Error; err != nil {
		return nil, false, ErrStorageUnavailable
	}

	s.maybePurge(now)

	return &sess, rotated, nil
}

// Logout destroys the session named by the cookie. Idempotent: an unknown or
// already-destroyed session is not an error.
func (s *SessionAuthorityService) Logout(cookieValue string) {
	token, err := s.parseCookie(cookieValue)
	if err != nil {
		return
	}

	var sess models.Session
	if err := models.DB.Where("token = ?", token).First(&sess).Error; err != nil {
		return
	}

	models.DB.Delete(&sess)
	s.events.Log(models.EventLogout, "", &sess.UserID,
		fmt.Sprintf("logout for %q", sess.Username), models.SeverityInfo)
}

// IssueCSRFToken returns the session's CSRF token, creating it on first
// need. The token is stable for the session's lifetime.
func (s *SessionAuthorityService) IssueCSRFToken(session *models.Session) (string, error) {
	if session.CSRFToken != "" {
		return session.CSRFToken, nil
	}

	token, err := randomHex(32)
	if err != nil {
		return "", err
	}

	if err := models.DB.Model(&models.Session{}).Where("id = ?", session.ID).
		Update("csrf_token", token).Error; err != nil {
		return "", ErrStorageUnavailable
	}

	session.CSRFToken = token
	return token, nil
}

// ValidateCSRFToken compares candidate against the session's stored token in
// constant time. No stored token always yields false.
func (s *SessionAuthorityService) ValidateCSRFToken(session *models.Session, candidate string) bool {
	if session == nil || session.CSRFToken == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(session.CSRFToken), []byte(candidate)) == 1
}

// ConsumeRedirectTarget returns and clears the remembered post-login URL.
// Single use; a second call returns "".
func (s *SessionAuthorityService) ConsumeRedirectTarget(session *models.Session) string {
	if session.RedirectTarget == "" {
		return ""
	}

	target := session.RedirectTarget
	session.RedirectTarget = ""
	if err := models.DB.Model(&models.Session{}).Where("id = ?", session.ID).
		Update("redirect_target", "").Error; err != nil {
		log.Printf("redirect target clear failed (session=%d): %v", session.ID, err)
	}
	return target
}

// CookieValue wraps the session token in a signed JWT. The cookie is only a
// tamper-evident carrier for the server-side session id; validity is decided
// by the session row, never by the JWT expiry.
func (s *SessionAuthorityService) CookieValue(session *models.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": session.Token,
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret()))
}

func (s *SessionAuthorityService) parseCookie(cookieValue string) (string, error) {
	parsed, err := jwt.Parse(cookieValue, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret()), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrSessionNotFound
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrSessionNotFound
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrSessionNotFound
	}
	return sid, nil
}

func (s *SessionAuthorityService) secret() string {
	if s.cfg.Session.Secret != "" {
		return s.cfg.Session.Secret
	}
	return "dreamcrafts-default-secret-change-in-production"
}

// maybePurge runs the attempt ledger sweep on a small fraction of validated
// requests. Best effort; failures only get logged.
func (s *SessionAuthorityService) maybePurge(now time.Time) {
	if mathrand.Intn(purgeDenominator) != 0 {
		return
	}

	cutoff := now.Add(-2 * time.Duration(s.cfg.Security.RateLimitWindow) * time.Second)
	if _, err := s.attempts.PurgeOlderThan(cutoff); err != nil {
		log.Printf("login attempt purge failed: %v", err)
	}
}

func randomHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
