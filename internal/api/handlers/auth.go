package handlers

import (
	"errors"

	"dreamcrafts/internal/api/middleware"
	"dreamcrafts/internal/config"
	"dreamcrafts/internal/models"
	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessions    *services.SessionAuthorityService
	credentials *services.CredentialStoreService
	events      *services.EventLogService
	cfg         *config.Config
}

func NewAuthHandler(
	sessions *services.SessionAuthorityService,
	credentials *services.CredentialStoreService,
	events *services.EventLogService,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		sessions:    sessions,
		credentials: credentials,
		events:      events,
		cfg:         cfg,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User       *models.Administrator `json:"user"`
	CSRFToken  string                `json:"csrf_token"`
	RedirectTo string                `json:"redirect_to,omitempty"`
}

// Login handles the login POST. Invalid username and wrong password produce
// the same response; rate limiting gets its own status so a client can back
// off instead of retrying.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Username and password are required"})
		return
	}

	redirectTarget, _ := c.Cookie(middleware.RedirectCookie)

	session, admin, err := h.sessions.Login(
		c.ClientIP(), c.GetHeader("User-Agent"), req.Username, req.Password, redirectTarget)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(429, gin.H{"error": "Too many login attempts, try again later"})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(401, gin.H{"error": "Invalid credentials"})
		default:
			c.JSON(500, gin.H{"error": "Login failed"})
		}
		return
	}

	csrfToken, err := h.sessions.IssueCSRFToken(session)
	if err != nil {
		c.JSON(500, gin.H{"error": "Login failed"})
		return
	}

	cookieValue, err := h.sessions.CookieValue(session)
	if err != nil {
		c.JSON(500, gin.H{"error": "Login failed"})
		return
	}
	middleware.SetSessionCookie(c, h.cfg, cookieValue)
	c.SetCookie(middleware.RedirectCookie, "", -1, "/", "", h.cfg.Session.CookieSecure, true)

	admin.PasswordHash = ""
	c.JSON(200, LoginResponse{
		User:       admin,
		CSRFToken:  csrfToken,
		RedirectTo: h.sessions.ConsumeRedirectTarget(session),
	})
}

// Logout destroys the session. Safe to call without one.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookieValue, err := c.Cookie(h.cfg.Session.CookieName); err == nil {
		h.sessions.Logout(cookieValue)
	}
	middleware.ClearSessionCookie(c, h.cfg)

	c.JSON(200, gin.H{"message": "Logged out successfully"})
}

// GetMe returns the current administrator
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}

	u := user.(*models.Administrator)
	u.PasswordHash = ""
	c.JSON(200, u)
}

// GetCSRFToken returns the session's CSRF token, issuing it on first need.
func (h *AuthHandler) GetCSRFToken(c *gin.Context) {
	value, exists := c.Get("session")
	if !exists {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}

	token, err := h.sessions.IssueCSRFToken(value.(*models.Session))
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(200, gin.H{"csrf_token": token})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword updates the current administrator's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Current and new password are required"})
		return
	}

	user, exists := c.Get("user")
	if !exists {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}
	u := user.(*models.Administrator)

	admin, err := h.credentials.FindByUsername(u.Username)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to change password"})
		return
	}

	if !h.credentials.VerifyPassword(admin.PasswordHash, req.CurrentPassword) {
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := h.credentials.UpdatePassword(admin.ID, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrPasswordTooShort) {
			c.JSON(400, gin.H{"error": "Password is too short"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to change password"})
		return
	}

	h.events.Log(models.EventPasswordChanged, c.ClientIP(), &admin.ID,
		"administrator password changed", models.SeverityInfo)

	c.JSON(200, gin.H{"message": "Password changed successfully"})
}
