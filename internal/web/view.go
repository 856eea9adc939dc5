package web

import (
	"html/template"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/athena/internal/form"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/UnknownOlympus/athena/internal/services/employees"
)

const notAvailable = "N/A"

var templateFuncs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

type employeeView struct {
	ID         string
	FirstName  string
	LastName   string
	FullName   string
	Email      string
	Position   string
	Department string
	Joined     string
	Salary     string
	PictureURL string
}

func (h *Handler) normalizeEmployeeView(employee models.Employee) employeeView {
	return employeeView{
		ID:         employee.ID,
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
		FullName:   employee.FullName(),
		Email:      employee.Email,
		Position:   employee.Position,
		Department: employee.Department,
		Joined:     formatDate(employee.DateOfJoining),
		Salary:     formatSalary(employee.Salary),
		PictureURL: form.AssetURL(h.opts.AssetBase, employee.ProfilePicture),
	}
}

func (h *Handler) normalizeEmployeeViews(list []models.Employee) []employeeView {
	views := make([]employeeView, 0, len(list))
	for _, employee := range list {
		views = append(views, h.normalizeEmployeeView(employee))
	}

	return views
}

type fieldView struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Error    string
	Required bool
}

type formView struct {
	Action      string
	SubmitLabel string
	CancelURL   string
	Fields      []fieldView
	// Preview is either a backend URL or a data URL built from the uploaded file.
	Preview        template.URL
	CurrentPicture string
}

var fieldLabels = map[string]struct {
	label    string
	kind     string
	required bool
}{
	form.FieldFirstName:     {"First Name", "text", true},
	form.FieldLastName:      {"Last Name", "text", true},
	form.FieldEmail:         {"Email", "email", true},
	form.FieldPosition:      {"Position", "text", true},
	form.FieldDepartment:    {"Department", "text", true},
	form.FieldDateOfJoining: {"Date of Joining", "date", false},
	form.FieldSalary:        {"Salary", "number", true},
}

func newFormView(f *form.Form, action, submitLabel, cancelURL, currentPicture string) formView {
	view := formView{
		Action:         action,
		SubmitLabel:    submitLabel,
		CancelURL:      cancelURL,
		Preview:        template.URL(f.Preview), //nolint:gosec // built by form.New or form.Preview
		CurrentPicture: currentPicture,
	}
	for _, name := range form.Fields {
		meta := fieldLabels[name]
		view.Fields = append(view.Fields, fieldView{
			Name:     name,
			Label:    meta.label,
			Type:     meta.kind,
			Value:    f.Value(name),
			Error:    f.Errors[name],
			Required: meta.required,
		})
	}

	return view
}

type searchView struct {
	Department string
	Position   string
	Searched   bool
	Employees  []employeeView
	Count      int
}

func (h *Handler) newSearchView(result employees.SearchResult) searchView {
	return searchView{
		Department: result.Filter.Department,
		Position:   result.Filter.Position,
		Searched:   result.Searched,
		Employees:  h.normalizeEmployeeViews(result.Employees),
		Count:      len(result.Employees),
	}
}

// formatDate renders an ISO date as "Jan 2, 2006".
func formatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return notAvailable
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}

	return parsed.Format("Jan 2, 2006")
}

// formatSalary renders a salary as "$12,345.67", dropping the cents of whole amounts.
func formatSalary(value float64) string {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return notAvailable
	}

	whole, cents, _ := strings.Cut(strconv.FormatFloat(value, 'f', 2, 64), ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	if cents != "00" {
		return "$" + grouped.String() + "." + cents
	}

	return "$" + grouped.String()
}
