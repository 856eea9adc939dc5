package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/athena/internal/models"
)

const uploadsDir = "uploads/"

// wireEmployee accepts both naming shapes served by the backend: the aggregate
// shape of GET /employees (firstName, profileImageUrl) and the per-word shape of
// GET /employees/:id and search (first_name, profile_picture).
type wireEmployee struct {
	UnderscoreID    flexString `json:"_id"`
	ID              flexString `json:"id"`
	FirstName       string     `json:"firstName"`
	FirstNameWord   string     `json:"first_name"`
	LastName        string     `json:"lastName"`
	LastNameWord    string     `json:"last_name"`
	Email           string     `json:"email"`
	Position        string     `json:"position"`
	Department      string     `json:"department"`
	DateOfJoining   string     `json:"dateOfJoining"`
	DateWord        string     `json:"date_of_joining"`
	Salary          flexNumber `json:"salary"`
	ProfileImageURL string     `json:"profileImageUrl"`
	ProfilePicture  string     `json:"profile_picture"`
}

// Employees decodes a collection response. Both a bare array and a
// {"data": [...]} envelope are accepted.
func Employees(in io.Reader) ([]models.Employee, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read employees body: %w", err)
	}

	var wire []wireEmployee

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data []wireEmployee `json:"data"`
		}
		if err = json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode employees envelope: %w", err)
		}
		wire = envelope.Data
	} else if err = json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	employees := make([]models.Employee, 0, len(wire))
	for _, item := range wire {
		employees = append(employees, item.normalize())
	}

	return employees, nil
}

// Employee decodes a single-record response. The boolean is false when the
// body holds no record with an identifier.
func Employee(in io.Reader) (models.Employee, bool, error) {
	var envelope struct {
		Data *wireEmployee `json:"data"`
		wireEmployee
	}

	if err := json.NewDecoder(in).Decode(&envelope); err != nil {
		if err == io.EOF {
			return models.Employee{}, false, nil
		}
		return models.Employee{}, false, fmt.Errorf("failed to decode employee: %w", err)
	}

	wire := envelope.wireEmployee
	if envelope.Data != nil {
		wire = *envelope.Data
	}

	employee := wire.normalize()
	if employee.ID == "" {
		return models.Employee{}, false, nil
	}

	return employee, true, nil
}

func (w wireEmployee) normalize() models.Employee {
	return models.Employee{
		ID:             firstNonEmpty(string(w.UnderscoreID), string(w.ID)),
		FirstName:      strings.TrimSpace(firstNonEmpty(w.FirstName, w.FirstNameWord)),
		LastName:       strings.TrimSpace(firstNonEmpty(w.LastName, w.LastNameWord)),
		Email:          strings.TrimSpace(w.Email),
		Position:       strings.TrimSpace(w.Position),
		Department:     strings.TrimSpace(w.Department),
		DateOfJoining:  datePart(firstNonEmpty(w.DateOfJoining, w.DateWord)),
		Salary:         float64(w.Salary),
		ProfilePicture: picturePath(w.ProfileImageURL, w.ProfilePicture),
	}
}

// picturePath maps both picture fields onto a path relative to the backend root.
// profileImageUrl already carries the directory; profile_picture is a bare file name.
func picturePath(imageURL, fileName string) string {
	imageURL = strings.TrimSpace(imageURL)
	fileName = strings.TrimSpace(fileName)

	switch {
	case imageURL != "":
		if isAbsoluteURL(imageURL) {
			return imageURL
		}
		return strings.TrimLeft(imageURL, "/")
	case fileName != "":
		if isAbsoluteURL(fileName) {
			return fileName
		}
		name := strings.TrimLeft(fileName, "/")
		if strings.HasPrefix(name, uploadsDir) {
			return name
		}
		return uploadsDir + name
	default:
		return ""
	}
}

func isAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

func datePart(value string) string {
	value = strings.TrimSpace(value)
	if idx := strings.IndexByte(value, 'T'); idx >= 0 {
		return value[:idx]
	}

	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}

	return ""
}

// flexString decodes identifiers sent either as strings or numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(strings.TrimSpace(str))
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("failed to decode identifier %s: %w", data, err)
	}
	*s = flexString(num.String())

	return nil
}

// flexNumber decodes salaries sent either as numbers or numeric strings.
// Anything else decodes to zero.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(data), `"`))
	if raw == "" || raw == "null" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil //nolint:nilerr // a malformed salary must not hide the whole record
	}
	*n = flexNumber(value)

	return nil
}
