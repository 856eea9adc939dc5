package web

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/UnknownOlympus/athena/internal/form"
	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/UnknownOlympus/athena/internal/services/employees"
)

const (
	maxUploadSize   = 5 << 20
	pictureField    = "profilePicture"
	employeeMissing = "Employee not found"
	pictureTooLarge = "The picture is too large"
	deleteFromList  = "list"
	deleteFromView  = "detail"
)

func employeeURL(id string) string {
	return "/employees/" + url.PathEscape(id)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.directory.List(c.Request.Context())
	if gone(c) {
		return
	}

	data := pageData{Title: "Employee List", Error: c.Query("error"), Message: c.Query("message")}
	if err != nil {
		data.Error = err.Error()
		h.render(c, http.StatusBadGateway, "list", data)
		return
	}

	data.Employees = h.normalizeEmployeeViews(list)
	h.render(c, http.StatusOK, "list", data)
}

func (h *Handler) search(c *gin.Context) {
	data := pageData{Title: "Search Employees"}
	filter := models.SearchFilter{Department: c.Query("department"), Position: c.Query("position")}

	if c.Query("submitted") == "" {
		data.Search = searchView{Department: filter.Department, Position: filter.Position}
		h.render(c, http.StatusOK, "search", data)
		return
	}

	result := h.directory.Search(c.Request.Context(), filter)
	if gone(c) {
		return
	}

	data.Search = h.newSearchView(result)
	data.Error = result.Error
	h.render(c, http.StatusOK, "search", data)
}

func (h *Handler) detail(c *gin.Context) {
	employee, ok := h.fetch(c)
	if !ok {
		return
	}

	h.render(c, http.StatusOK, "detail", pageData{
		Title:    "Employee Details",
		Employee: h.normalizeEmployeeView(employee),
		Error:    c.Query("error"),
		Message:  c.Query("message"),
	})
}

// fetch loads the employee named by the :id parameter and renders the
// not-found or error page itself when that fails.
func (h *Handler) fetch(c *gin.Context) (models.Employee, bool) {
	employee, err := h.directory.Get(c.Request.Context(), c.Param("id"))
	if gone(c) {
		return models.Employee{}, false
	}

	switch {
	case errors.Is(err, employees.ErrNotFound):
		h.render(c, http.StatusNotFound, "notfound", pageData{Title: employeeMissing, NotFoundText: employeeMissing})
		return models.Employee{}, false
	case err != nil:
		h.render(c, http.StatusBadGateway, "notfound", pageData{Title: "Employee Details", Error: err.Error()})
		return models.Employee{}, false
	}

	return employee, true
}

func (h *Handler) createPage(c *gin.Context) {
	h.renderForm(c, http.StatusOK, form.New(nil, h.opts.AssetBase), "", "")
}

func (h *Handler) create(c *gin.Context) {
	f := form.New(nil, h.opts.AssetBase)
	if !h.readForm(c, f) {
		return
	}

	outcome := h.directory.Create(c.Request.Context(), f)
	if gone(c) {
		return
	}

	switch {
	case outcome.Saved:
		c.Redirect(http.StatusFound, "/employees")
	case outcome.Message != "":
		h.renderForm(c, http.StatusBadGateway, f, "", outcome.Message)
	default:
		h.renderForm(c, http.StatusUnprocessableEntity, f, "", "")
	}
}

func (h *Handler) editPage(c *gin.Context) {
	employee, ok := h.fetch(c)
	if !ok {
		return
	}

	f := form.New(&employee, h.opts.AssetBase)
	h.renderForm(c, http.StatusOK, f, employee.ID, "")
}

func (h *Handler) edit(c *gin.Context) {
	id := c.Param("id")

	f := form.New(nil, h.opts.AssetBase)
	if !h.readForm(c, f) {
		return
	}

	outcome := h.directory.Update(c.Request.Context(), id, f)
	if gone(c) {
		return
	}

	switch {
	case outcome.Saved:
		c.Redirect(http.StatusFound, employeeURL(id))
	case outcome.Message != "":
		h.renderForm(c, http.StatusBadGateway, f, id, outcome.Message)
	default:
		h.renderForm(c, http.StatusUnprocessableEntity, f, id, "")
	}
}

// readForm copies the posted fields and the optional picture into f.
func (h *Handler) readForm(c *gin.Context, f *form.Form) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+1<<20)
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.initLogger("readForm").WarnContext(c.Request.Context(), "Failed to parse form", sl.Err(err))
		h.renderForm(c, http.StatusRequestEntityTooLarge, f, c.Param("id"), pictureTooLarge)
		return false
	}

	f.Fill(c.PostForm)

	if current := c.PostForm("currentPicture"); strings.HasPrefix(current, h.opts.AssetBase+"/") {
		f.Preview = current
	}

	file, header, err := c.Request.FormFile(pictureField)
	if err != nil {
		return true
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		h.renderForm(c, http.StatusRequestEntityTooLarge, f, c.Param("id"), pictureTooLarge)
		return false
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		h.initLogger("readForm").WarnContext(c.Request.Context(), "Failed to read picture", sl.Err(err))
		h.renderForm(c, http.StatusBadRequest, f, c.Param("id"), "The picture could not be read")
		return false
	}
	if len(data) > maxUploadSize {
		h.renderForm(c, http.StatusRequestEntityTooLarge, f, c.Param("id"), pictureTooLarge)
		return false
	}
	f.SetImage(header.Filename, data)

	return true
}

func (h *Handler) renderForm(c *gin.Context, status int, f *form.Form, id, message string) {
	data := pageData{Error: message}
	currentPicture := ""
	if f.Image == nil && !strings.HasPrefix(f.Preview, "data:") {
		currentPicture = f.Preview
	}

	if id == "" {
		data.Title = "Add Employee"
		data.Form = newFormView(f, "/employees/new", "Create Employee", "/employees", currentPicture)
	} else {
		data.Title = "Edit Employee"
		data.Form = newFormView(f, employeeURL(id)+"/edit", "Update Employee", employeeURL(id), currentPicture)
	}

	h.render(c, status, "form", data)
}

func (h *Handler) deletePage(c *gin.Context) {
	employee, ok := h.fetch(c)
	if !ok {
		return
	}

	h.render(c, http.StatusOK, "delete", pageData{
		Title:      "Delete Employee",
		Employee:   h.normalizeEmployeeView(employee),
		DeleteFrom: deleteOrigin(c.Query("from")),
	})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	from := deleteOrigin(c.PostForm("from"))

	if c.PostForm("confirm") != "yes" {
		h.render(c, http.StatusOK, "delete", pageData{
			Title:      "Delete Employee",
			Employee:   employeeView{ID: id},
			DeleteFrom: from,
		})
		return
	}

	err := h.directory.Delete(c.Request.Context(), id)
	if gone(c) {
		return
	}

	if err != nil {
		if from == deleteFromView {
			redirectWith(c, employeeURL(id), "error", err.Error())
			return
		}
		redirectWith(c, "/employees", "error", err.Error())
		return
	}

	redirectWith(c, "/employees", "message", "Employee deleted")
}

func deleteOrigin(from string) string {
	if from == deleteFromView {
		return deleteFromView
	}

	return deleteFromList
}
