package models

import (
	"net/url"
	"strings"
)

// SearchFilter holds the optional department and position filters.
type SearchFilter struct {
	Department string
	Position   string
}

// IsEmpty reports whether both filters are blank.
func (f SearchFilter) IsEmpty() bool {
	return strings.TrimSpace(f.Department) == "" && strings.TrimSpace(f.Position) == ""
}

// Query encodes only the non-empty filters.
func (f SearchFilter) Query() url.Values {
	values := url.Values{}
	if department := strings.TrimSpace(f.Department); department != "" {
		values.Set("department", department)
	}
	if position := strings.TrimSpace(f.Position); position != "" {
		values.Set("position", position)
	}

	return values
}
