package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const signupSuccess = "Signup successful! Please login."

func (h *Handler) loginPage(c *gin.Context) {
	if currentSession(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/employees")
		return
	}

	h.render(c, http.StatusOK, "login", pageData{
		Title:   "Login",
		Next:    c.Query("next"),
		Error:   c.Query("error"),
		Message: c.Query("message"),
	})
}

func (h *Handler) login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	next := c.PostForm("next")

	session, result := h.sessions.Login(c.Request.Context(), email, password)
	if gone(c) {
		return
	}
	if !result.Success {
		h.render(c, http.StatusUnauthorized, "login", pageData{
			Title: "Login",
			Next:  next,
			Email: email,
			Error: result.Message,
		})
		return
	}

	h.setSessionCookie(c, session.ID)
	c.Redirect(http.StatusFound, localPath(next))
}

func (h *Handler) signupPage(c *gin.Context) {
	h.render(c, http.StatusOK, "signup", pageData{Title: "Sign Up", Error: c.Query("error")})
}

func (h *Handler) signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	result := h.sessions.Signup(c.Request.Context(), username, email, password)
	if gone(c) {
		return
	}
	if !result.Success {
		h.render(c, http.StatusBadRequest, "signup", pageData{
			Title:    "Sign Up",
			Username: username,
			Email:    email,
			Error:    result.Message,
		})
		return
	}

	redirectWith(c, "/login", "message", signupSuccess)
}

func (h *Handler) logout(c *gin.Context) {
	if id, err := c.Cookie(h.opts.CookieName); err == nil {
		h.sessions.Logout(c.Request.Context(), id)
	}

	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}
