package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UnknownOlympus/athena/internal/auth"
	"github.com/UnknownOlympus/athena/internal/form"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/UnknownOlympus/athena/internal/services/employees"
)

// SessionStore is the session side of the application.
type SessionStore interface {
	Login(ctx context.Context, email, password string) (models.Session, auth.Result)
	Signup(ctx context.Context, username, email, password string) auth.Result
	Logout(ctx context.Context, sessionID string)
	Resolve(ctx context.Context, sessionID string) models.Session
}

// EmployeeDirectory runs the employee views against the backend.
type EmployeeDirectory interface {
	List(ctx context.Context) ([]models.Employee, error)
	Get(ctx context.Context, id string) (models.Employee, error)
	Create(ctx context.Context, f *form.Form) employees.Outcome
	Update(ctx context.Context, id string, f *form.Form) employees.Outcome
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter models.SearchFilter) employees.SearchResult
}

// Options configures the session cookie and picture links.
type Options struct {
	CookieName   string
	SecureCookie bool
	// AssetBase is the backend root that serves uploaded pictures.
	AssetBase string
}

// Handler serves the browser front-end.
type Handler struct {
	log       *slog.Logger
	sessions  SessionStore
	directory EmployeeDirectory
	metrics   *metrics.Metrics
	opts      Options
	pages     *pages
}

func NewHandler(
	log *slog.Logger,
	sessions SessionStore,
	directory EmployeeDirectory,
	metrics *metrics.Metrics,
	opts Options,
) *Handler {
	return &Handler{
		log:       log.With(slog.String("division", "web")),
		sessions:  sessions,
		directory: directory,
		metrics:   metrics,
		opts:      opts,
		pages:     loadPages(),
	}
}

// Router builds the gin engine with every route of the front-end.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		h.requestLogger(),
		h.recordMetrics(),
		securityHeaders(),
		h.loadSession(),
	)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})
	router.GET("/assets/app.css", serveStylesheet)

	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/signup", h.signupPage)
	router.POST("/signup", h.signup)
	router.POST("/logout", h.logout)

	protected := router.Group("/employees", h.RequireAuth())
	{
		protected.GET("", h.list)
		protected.GET("/new", h.createPage)
		protected.POST("/new", h.create)
		protected.GET("/search", h.search)
		protected.GET("/export.xlsx", h.export)
		protected.GET("/:id", h.detail)
		protected.GET("/:id/edit", h.editPage)
		protected.POST("/:id/edit", h.edit)
		protected.GET("/:id/delete", h.deletePage)
		protected.POST("/:id/delete", h.delete)
	}

	router.NoRoute(func(c *gin.Context) {
		h.render(c, http.StatusNotFound, "notfound", pageData{Title: "Page not found", NotFoundText: "Page not found."})
	})

	return router
}

func (h *Handler) initLogger(opn string) *slog.Logger {
	return h.log.With(slog.String("op", opn))
}

// gone reports whether the browser abandoned the request while a backend call was pending.
// The result of that call is then discarded.
func gone(c *gin.Context) bool {
	if c.Request.Context().Err() != nil {
		c.Abort()
		return true
	}

	return false
}
