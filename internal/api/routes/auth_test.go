package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"dreamcrafts/internal/config"
	"dreamcrafts/internal/models"
	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB initializes a test database
func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/dreamcrafts_test_%d.db", tmpDir, time.Now().UnixNano())

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

// createTestAdmin provisions an administrator account
func createTestAdmin(t *testing.T, cfg *config.Config, username, password string) *models.Administrator {
	credentials := services.NewCredentialStoreService(cfg)
	admin, err := credentials.CreateAdministrator(username, password)
	require.NoError(t, err)
	return admin
}

// setupTestRouter creates a test router with routes
func setupTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, cfg)
	return r
}

// doLogin posts credentials and returns the recorder
func doLogin(r *gin.Engine, username, password string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the session cookie from a login response
func sessionCookie(t *testing.T, cfg *config.Config, w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cfg.Session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

// loginBody decodes a successful login response
func loginBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLoginSuccess(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	admin := createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	w := doLogin(r, "admin", "correct-horse")
	require.Equal(t, 200, w.Code)

	body := loginBody(t, w)
	assert.NotEmpty(t, body["csrf_token"])

	cookie := sessionCookie(t, cfg, w)
	assert.True(t, cookie.HttpOnly)

	// Session row exists and belongs to the admin
	var session models.Session
	require.NoError(t, models.DB.Where("user_id = ?", admin.ID).First(&session).Error)
	assert.Equal(t, "admin", session.Username)

	// last_login was stamped
	var stored models.Administrator
	require.NoError(t, models.DB.First(&stored, admin.ID).Error)
	assert.NotNil(t, stored.LastLogin)

	// Success recorded in the attempt ledger
	var attempt models.LoginAttempt
	require.NoError(t, models.DB.Order("id DESC").First(&attempt).Error)
	assert.True(t, attempt.Success)
}

func TestLoginFailureIndistinguishable(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	wrongPassword := doLogin(r, "admin", "wrong-password")
	unknownUser := doLogin(r, "nobody", "wrong-password")

	// Wrong password and unknown username answer identically
	assert.Equal(t, 401, wrongPassword.Code)
	assert.Equal(t, 401, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())

	// Both failures are in the ledger, with the username as submitted
	var count int64
	models.DB.Model(&models.LoginAttempt{}).Where("success = ?", false).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRateLimitBlocksCorrectCredentials(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	for i := 0; i < cfg.Security.MaxLoginAttempts; i++ {
		w := doLogin(r, "admin", "wrong-password")
		require.Equal(t, 401, w.Code)
	}

	// Correct credentials still get 429 until the window elapses
	w := doLogin(r, "admin", "correct-horse")
	assert.Equal(t, 429, w.Code)

	// The block was recorded as a security event
	var event models.SecurityEvent
	require.NoError(t, models.DB.Where("event_type = ?", models.EventRateLimitExceeded).First(&event).Error)
	assert.Equal(t, models.SeverityWarning, event.Severity)
}

func TestPriorFailuresSurviveSuccess(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "admin123pw")
	r := setupTestRouter(cfg)

	for i := 0; i < 4; i++ {
		require.Equal(t, 401, doLogin(r, "admin", "wrong-password").Code)
	}

	// 4 failures is under the threshold of 5: login succeeds
	w := doLogin(r, "admin", "admin123pw")
	require.Equal(t, 200, w.Code)

	// The 4 failures are not reset and the success is its own entry
	var failures, successes int64
	models.DB.Model(&models.LoginAttempt{}).Where("success = ?", false).Count(&failures)
	models.DB.Model(&models.LoginAttempt{}).Where("success = ?", true).Count(&successes)
	assert.Equal(t, int64(4), failures)
	assert.Equal(t, int64(1), successes)

	// One more failure reaches the threshold despite the success in between
	require.Equal(t, 401, doLogin(r, "other", "wrong-password").Code)
	assert.Equal(t, 429, doLogin(r, "admin", "admin123pw").Code)
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, 401, w.Code)

	// The requested URL is remembered for post-login replay
	var redirect *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "dreamcrafts_redirect" {
			redirect = c
		}
	}
	require.NotNil(t, redirect)

	login := doLogin(r, "admin", "correct-horse", redirect)
	require.Equal(t, 200, login.Code)
	body := loginBody(t, login)
	assert.Equal(t, "/api/auth/me", body["redirect_to"])
}

func TestAuthenticatedMe(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	cookie := sessionCookie(t, cfg, doLogin(r, "admin", "correct-horse"))

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var me models.Administrator
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "admin", me.Username)
	assert.Empty(t, me.PasswordHash)
}

func TestSessionTimeout(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	cookie := sessionCookie(t, cfg, doLogin(r, "admin", "correct-horse"))

	// Age the session past the timeout; the cookie itself is still valid at
	// the transport layer.
	stale := time.Now().Add(-time.Duration(cfg.Session.TimeoutSeconds+60) * time.Second)
	require.NoError(t, models.DB.Model(&models.Session{}).
		Where("1 = 1").Update("last_activity", stale).Error)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)

	// The session row was destroyed, not just rejected
	var count int64
	models.DB.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSessionRotation(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	cookie := sessionCookie(t, cfg, doLogin(r, "admin", "correct-horse"))

	// Push last_regeneration past the interval
	old := time.Now().Add(-time.Duration(cfg.Session.RegenerateSeconds+60) * time.Second)
	require.NoError(t, models.DB.Model(&models.Session{}).
		Where("1 = 1").Update("last_regeneration", old).Error)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	// A fresh cookie with a different value was issued
	rotated := sessionCookie(t, cfg, w)
	assert.NotEqual(t, cookie.Value, rotated.Value)

	// The old cookie no longer resolves to a session
	req = httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)

	// The rotated one does
	req = httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(rotated)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
}

func TestLogoutIdempotent(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	cookie := sessionCookie(t, cfg, doLogin(r, "admin", "correct-horse"))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/auth/logout", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, 200, w.Code)
	}

	// Logout with no cookie at all is also fine
	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	var count int64
	models.DB.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCSRFProtection(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "correct-horse")
	r := setupTestRouter(cfg)

	login := doLogin(r, "admin", "correct-horse")
	cookie := sessionCookie(t, cfg, login)
	csrfToken := loginBody(t, login)["csrf_token"].(string)

	payload, _ := json.Marshal(map[string]interface{}{"title": "Mountain Sunrise", "price_cents": 2500})

	// No token: rejected and logged critical
	req := httptest.NewRequest("POST", "/api/admin/prints", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 403, w.Code)

	var event models.SecurityEvent
	require.NoError(t, models.DB.Where("event_type = ?", models.EventCSRFFailure).First(&event).Error)
	assert.Equal(t, models.SeverityCritical, event.Severity)

	// Token off by one character: rejected
	req = httptest.NewRequest("POST", "/api/admin/prints", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", csrfToken[:len(csrfToken)-1]+"0")
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 403, w.Code)

	// Exact token: accepted, and reusable within the session
	for i := 0; i < 2; i++ {
		body, _ := json.Marshal(map[string]interface{}{
			"title":       fmt.Sprintf("Mountain Sunrise %d", i),
			"price_cents": 2500,
		})
		req = httptest.NewRequest("POST", "/api/admin/prints", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", csrfToken)
		req.AddCookie(cookie)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, 201, w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	createTestAdmin(t, cfg, "admin", "old-password")
	r := setupTestRouter(cfg)

	login := doLogin(r, "admin", "old-password")
	cookie := sessionCookie(t, cfg, login)
	csrfToken := loginBody(t, login)["csrf_token"].(string)

	changePassword := func(current, next string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{
			"current_password": current,
			"new_password":     next,
		})
		req := httptest.NewRequest("POST", "/api/auth/password", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", csrfToken)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// 7 characters is below the minimum
	assert.Equal(t, 400, changePassword("old-password", "seven77").Code)

	// 8 characters succeeds
	require.Equal(t, 200, changePassword("old-password", "eight888").Code)

	// New password logs in, old one does not
	assert.Equal(t, 200, doLogin(r, "admin", "eight888").Code)
	assert.Equal(t, 401, doLogin(r, "admin", "old-password").Code)
}

func TestCORSOriginAllowList(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	cfg.Server.AllowedOrigins = []string{"https://admin.dreamcrafts.example"}
	r := setupTestRouter(cfg)

	get := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/health", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// A listed origin is echoed back with credentials allowed
	w := get("https://admin.dreamcrafts.example")
	assert.Equal(t, "https://admin.dreamcrafts.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	// An unlisted origin gets no CORS headers at all
	w = get("https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	// Same-origin requests carry no Origin header and are untouched
	w = get("")
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// Preflight from a listed origin short-circuits with the grant
	req := httptest.NewRequest("OPTIONS", "/api/auth/login", nil)
	req.Header.Set("Origin", "https://admin.dreamcrafts.example")
	pre := httptest.NewRecorder()
	r.ServeHTTP(pre, req)
	assert.Equal(t, 204, pre.Code)
	assert.Equal(t, "https://admin.dreamcrafts.example", pre.Header().Get("Access-Control-Allow-Origin"))
}
