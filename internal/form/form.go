package form

import (
	"strconv"
	"strings"

	"github.com/UnknownOlympus/athena/internal/models"
)

// Form field names as posted by the browser.
const (
	FieldFirstName     = "firstName"
	FieldLastName      = "lastName"
	FieldEmail         = "email"
	FieldPosition      = "position"
	FieldDepartment    = "department"
	FieldDateOfJoining = "dateOfJoining"
	FieldSalary        = "salary"
)

// Fields lists every draft field in display order.
var Fields = []string{
	FieldFirstName, FieldLastName, FieldEmail, FieldPosition, FieldDepartment, FieldDateOfJoining, FieldSalary,
}

// Draft holds the values exactly as typed.
type Draft struct {
	FirstName     string
	LastName      string
	Email         string
	Position      string
	Department    string
	DateOfJoining string
	Salary        string
}

// Errors maps a field name to its validation message.
type Errors map[string]string

// Image is a picked picture waiting for submission.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Form is the state of one create or edit screen.
type Form struct {
	Draft   Draft
	Errors  Errors
	Image   *Image
	Preview string
}

// New returns an empty form, or one filled from existing in edit mode.
// assetBase is prepended to the stored picture path for the preview.
func New(existing *models.Employee, assetBase string) *Form {
	f := &Form{Errors: Errors{}}
	if existing == nil {
		return f
	}

	f.Draft = Draft{
		FirstName:     existing.FirstName,
		LastName:      existing.LastName,
		Email:         existing.Email,
		Position:      existing.Position,
		Department:    existing.Department,
		DateOfJoining: existing.DateOfJoining,
	}
	if existing.Salary != 0 {
		f.Draft.Salary = strconv.FormatFloat(existing.Salary, 'f', -1, 64)
	}
	f.Preview = AssetURL(assetBase, existing.ProfilePicture)

	return f
}

// AssetURL resolves a stored picture path against the backend root.
func AssetURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Set updates one field and clears its error. Unknown names are ignored.
func (f *Form) Set(field, value string) {
	switch field {
	case FieldFirstName:
		f.Draft.FirstName = value
	case FieldLastName:
		f.Draft.LastName = value
	case FieldEmail:
		f.Draft.Email = value
	case FieldPosition:
		f.Draft.Position = value
	case FieldDepartment:
		f.Draft.Department = value
	case FieldDateOfJoining:
		f.Draft.DateOfJoining = value
	case FieldSalary:
		f.Draft.Salary = value
	default:
		return
	}

	delete(f.Errors, field)
}

// Fill sets every field from values, typically a request's PostFormValue.
func (f *Form) Fill(values func(string) string) {
	for _, field := range Fields {
		f.Set(field, values(field))
	}
}

// Value returns the current value of a field.
func (f *Form) Value(field string) string {
	switch field {
	case FieldFirstName:
		return f.Draft.FirstName
	case FieldLastName:
		return f.Draft.LastName
	case FieldEmail:
		return f.Draft.Email
	case FieldPosition:
		return f.Draft.Position
	case FieldDepartment:
		return f.Draft.Department
	case FieldDateOfJoining:
		return f.Draft.DateOfJoining
	case FieldSalary:
		return f.Draft.Salary
	default:
		return ""
	}
}

// Submit validates the draft and, when it is valid, hands the payload to fn.
// It reports false without calling fn when validation fails.
func (f *Form) Submit(fn func(models.Submission) error) (bool, error) {
	if errs := Validate(f.Draft); len(errs) > 0 {
		f.Errors = errs
		return false, nil
	}
	f.Errors = Errors{}

	sub, err := Payload(f.Draft, f.Image)
	if err != nil {
		return false, err
	}

	return true, fn(sub)
}
