package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

const dateLayout = "2006-01-02"

// Validate checks a draft and returns the message for every failing field.
// An empty map means the draft may be submitted.
func Validate(d Draft) Errors {
	errs := Errors{}

	if strings.TrimSpace(d.FirstName) == "" {
		errs[FieldFirstName] = "First name is required"
	}
	if strings.TrimSpace(d.LastName) == "" {
		errs[FieldLastName] = "Last name is required"
	}

	switch email := strings.TrimSpace(d.Email); {
	case email == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Email is invalid"
	}

	if strings.TrimSpace(d.Position) == "" {
		errs[FieldPosition] = "Position is required"
	}
	if strings.TrimSpace(d.Department) == "" {
		errs[FieldDepartment] = "Department is required"
	}

	if salary := strings.TrimSpace(d.Salary); salary == "" {
		errs[FieldSalary] = "Salary is required"
	} else if value, err := strconv.ParseFloat(salary, 64); err != nil || math.IsInf(value, 0) || !(value > 0) {
		errs[FieldSalary] = "Salary must be a positive number"
	}

	if date := strings.TrimSpace(d.DateOfJoining); date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			errs[FieldDateOfJoining] = "Date of joining must be a valid date"
		}
	}

	return errs
}
