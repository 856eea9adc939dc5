package models

import "strings"

// Employee represents an employee record owned by the backend.
// ProfilePicture is a path relative to the backend root, e.g. "uploads/42.png".
type Employee struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Position       string  `json:"position"`
	Department     string  `json:"department"`
	DateOfJoining  string  `json:"dateOfJoining"`
	Salary         float64 `json:"salary"`
	ProfilePicture string  `json:"profilePicture"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
