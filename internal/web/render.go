package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UnknownOlympus/athena/internal/auth"
	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
)

//go:embed templates/*.html assets/app.css
var templatesFS embed.FS

var pageNames = []string{"login", "signup", "list", "search", "detail", "form", "delete", "notfound"}

type pages struct {
	templates map[string]*template.Template
}

func loadPages() *pages {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		templates[name] = template.Must(
			template.New(name).Funcs(templateFuncs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html"),
		)
	}

	return &pages{templates: templates}
}

// pageData is shared by every page; each page reads the fields it needs.
type pageData struct {
	Title         string
	Authenticated bool
	Subject       string
	Error         string
	Message       string

	Next     string
	Email    string
	Username string

	Employees []employeeView
	Employee  employeeView
	Form      formView
	Search    searchView

	DeleteFrom   string
	NotFoundText string
}

func (h *Handler) render(c *gin.Context, status int, name string, data pageData) {
	session := currentSession(c)
	data.Authenticated = session.IsAuthenticated()
	if data.Authenticated {
		data.Subject = auth.Subject(session.Token)
	}

	var buf bytes.Buffer
	if err := h.pages.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.initLogger("render").ErrorContext(c.Request.Context(), "Failed to render page", "page", name, sl.Err(err))
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func serveStylesheet(c *gin.Context) {
	css, err := templatesFS.ReadFile("assets/app.css")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "text/css; charset=utf-8", css)
}
