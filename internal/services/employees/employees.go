package employees

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/athena/internal/client"
	"github.com/UnknownOlympus/athena/internal/form"
	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
)

// ErrNotFound is returned by Get when the backend has no such employee.
var ErrNotFound = client.ErrNotFound

const (
	msgFetchList     = "Failed to fetch employees"
	msgFetchDetails  = "Failed to fetch employee details"
	msgCreate        = "Failed to create employee"
	msgUpdate        = "Failed to update employee"
	msgDelete        = "Failed to delete employee"
	msgSearch        = "Failed to search employees"
	msgEmptyCriteria = "Please enter at least one search criteria"
)

// EmployeeAPI is the part of the backend client the views use.
type EmployeeAPI interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (models.Employee, error)
	CreateEmployee(ctx context.Context, sub models.Submission) error
	UpdateEmployee(ctx context.Context, id string, sub models.Submission) error
	DeleteEmployee(ctx context.Context, id string) error
	SearchEmployees(ctx context.Context, filter models.SearchFilter) ([]models.Employee, error)
}

// Failure is an error whose message can be shown to the user as is.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Outcome reports a create or update. Saved is false with an empty Message
// when validation blocked the submission; the form then carries the field errors.
type Outcome struct {
	Saved   bool
	Message string
}

// SearchResult is the state of the search view after a search.
// Searched separates "not searched yet" from "searched with zero results".
type SearchResult struct {
	Filter    models.SearchFilter
	Employees []models.Employee
	Searched  bool
	Error     string
}

// Directory runs the employee views against the backend.
type Directory struct {
	log     *slog.Logger
	api     EmployeeAPI
	metrics *metrics.Metrics
}

func NewDirectory(log *slog.Logger, api EmployeeAPI, metrics *metrics.Metrics) *Directory {
	return &Directory{log: log, api: api, metrics: metrics}
}

func (d *Directory) initLogger(opn string) *slog.Logger {
	return d.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

// List fetches the whole collection.
func (d *Directory) List(ctx context.Context) ([]models.Employee, error) {
	const opn = "Directory.List"

	employees, err := d.api.ListEmployees(ctx)
	if err != nil {
		d.initLogger(opn).ErrorContext(ctx, "Failed to fetch employees", sl.Err(err))
		return nil, &Failure{Message: msgFetchList, Err: err}
	}

	return employees, nil
}

// Get fetches one employee.
func (d *Directory) Get(ctx context.Context, id string) (models.Employee, error) {
	const opn = "Directory.Get"

	employee, err := d.api.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return models.Employee{}, ErrNotFound
		}
		d.initLogger(opn).ErrorContext(ctx, "Failed to fetch employee", "id", id, sl.Err(err))
		return models.Employee{}, &Failure{Message: msgFetchDetails, Err: err}
	}

	return employee, nil
}

// Create validates the form and posts it to the create endpoint.
func (d *Directory) Create(ctx context.Context, f *form.Form) Outcome {
	return d.save(ctx, "Directory.Create", f, msgCreate, func(sub models.Submission) error {
		return d.api.CreateEmployee(ctx, sub)
	})
}

// Update validates the form and puts it to the update endpoint of id.
func (d *Directory) Update(ctx context.Context, id string, f *form.Form) Outcome {
	return d.save(ctx, "Directory.Update", f, msgUpdate, func(sub models.Submission) error {
		return d.api.UpdateEmployee(ctx, id, sub)
	})
}

func (d *Directory) save(
	ctx context.Context,
	opn string,
	f *form.Form,
	fallback string,
	send func(models.Submission) error,
) Outcome {
	submitted, err := f.Submit(send)
	if !submitted && err == nil {
		for field := range f.Errors {
			d.metrics.ValidationFailures.WithLabelValues(field).Inc()
		}
		return Outcome{}
	}
	if err != nil {
		d.initLogger(opn).WarnContext(ctx, "Failed to save employee", sl.Err(err))
		return Outcome{Message: client.MessageOf(err, fallback)}
	}

	return Outcome{Saved: true}
}

// Delete removes one employee.
func (d *Directory) Delete(ctx context.Context, id string) error {
	const opn = "Directory.Delete"

	if err := d.api.DeleteEmployee(ctx, id); err != nil {
		d.initLogger(opn).ErrorContext(ctx, "Failed to delete employee", "id", id, sl.Err(err))
		return &Failure{Message: msgDelete, Err: err}
	}

	return nil
}

// Search runs a filtered query. A filter with both fields blank is rejected without calling the backend.
func (d *Directory) Search(ctx context.Context, filter models.SearchFilter) SearchResult {
	const opn = "Directory.Search"

	result := SearchResult{Filter: filter}
	if filter.IsEmpty() {
		result.Error = msgEmptyCriteria
		return result
	}

	employees, err := d.api.SearchEmployees(ctx, filter)
	if err != nil {
		d.initLogger(opn).ErrorContext(ctx, "Failed to search employees", sl.Err(err))
		result.Error = msgSearch
		return result
	}

	result.Employees = employees
	result.Searched = true

	return result
}
