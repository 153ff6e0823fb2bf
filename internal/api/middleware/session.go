package middleware

import (
	"errors"
	"net/http"

	"dreamcrafts/internal/config"
	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

// RedirectCookie remembers the URL an anonymous visitor asked for, so the
// login response can send them back. Consumed (and cleared) by login.
const RedirectCookie = "dreamcrafts_redirect"

// SessionMiddleware resolves the session cookie to an authenticated
// administrator. Expired or missing sessions get a 401 with the login URL;
// the originally requested path is remembered for post-login replay.
func SessionMiddleware(cfg *config.Config, sessions *services.SessionAuthorityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieValue, err := c.Cookie(cfg.Session.CookieName)
		if err != nil || cookieValue == "" {
			rejectAnonymous(c, cfg)
			return
		}

		session, rotated, err := sessions.Validate(cookieValue)
		if err != nil {
			if errors.Is(err, services.ErrStorageUnavailable) {
				c.JSON(500, gin.H{"error": "Service unavailable"})
				c.Abort()
				return
			}
			// Expired or unknown session: clear the stale cookie and treat
			// the request as anonymous.
			clearSessionCookie(c, cfg)
			rejectAnonymous(c, cfg)
			return
		}

		if rotated {
			value, err := sessions.CookieValue(session)
			if err == nil {
				setSessionCookie(c, cfg, value)
			}
		}

		c.Set("session", session)
		c.Set("user", &session.User)
		c.Set("user_id", session.UserID)

		c.Next()
	}
}

func rejectAnonymous(c *gin.Context, cfg *config.Config) {
	// Only remember navigable targets, never mutations.
	if c.Request.Method == http.MethodGet {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(RedirectCookie, c.Request.URL.RequestURI(), 600, "/", "", cfg.Session.CookieSecure, true)
	}
	c.JSON(401, gin.H{"error": "Authentication required", "login_url": "/api/auth/login"})
	c.Abort()
}

func setSessionCookie(c *gin.Context, cfg *config.Config, value string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.Session.CookieName, value, cfg.Session.TimeoutSeconds, "/", "", cfg.Session.CookieSecure, true)
}

func clearSessionCookie(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.Session.CookieName, "", -1, "/", "", cfg.Session.CookieSecure, true)
}

// SetSessionCookie issues the session cookie on a response. Exposed for the
// login handler.
func SetSessionCookie(c *gin.Context, cfg *config.Config, value string) {
	setSessionCookie(c, cfg, value)
}

// ClearSessionCookie expires the session cookie. Exposed for the logout
// handler.
func ClearSessionCookie(c *gin.Context, cfg *config.Config) {
	clearSessionCookie(c, cfg)
}
