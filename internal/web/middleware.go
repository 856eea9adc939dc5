package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UnknownOlympus/athena/internal/client"
	"github.com/UnknownOlympus/athena/internal/models"
)

const sessionKey = "session"

var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"style-src 'self'",
	"img-src 'self' data: http: https:",
	"form-action 'self'",
	"frame-ancestors 'none'",
}, "; ")

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("X-Frame-Options", "DENY")
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("Referrer-Policy", "no-referrer")
		header.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		header.Set("Content-Security-Policy", contentSecurityPolicy)
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
		}
		if status >= http.StatusInternalServerError {
			h.log.ErrorContext(c.Request.Context(), "Request failed", attrs...)
			return
		}
		h.log.DebugContext(c.Request.Context(), "Request served", attrs...)
	}
}

func (h *Handler) recordMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// loadSession resolves the session cookie for every request.
func (h *Handler) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var session models.Session
		if id, err := c.Cookie(h.opts.CookieName); err == nil && id != "" {
			session = h.sessions.Resolve(c.Request.Context(), id)
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAuth redirects unauthenticated browsers to the login page and
// passes the session token to the backend client for everyone else.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		if !session.IsAuthenticated() {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(client.WithToken(c.Request.Context(), session.Token))
		c.Next()
	}
}

func currentSession(c *gin.Context) models.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}
	}
	session, _ := value.(models.Session)

	return session
}

func (h *Handler) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, id, 0, "/", "", h.opts.SecureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, "", -1, "/", "", h.opts.SecureCookie, true)
}

// localPath accepts only same-site paths as a post-login destination.
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/employees"
	}

	return next
}

// redirectWith navigates to path and carries a banner for the next page.
func redirectWith(c *gin.Context, path, key, message string) {
	if message != "" {
		path += "?" + url.Values{key: {message}}.Encode()
	}
	c.Redirect(http.StatusFound, path)
}
