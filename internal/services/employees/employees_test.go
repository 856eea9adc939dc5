package employees_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/athena/internal/client"
	"github.com/UnknownOlympus/athena/internal/form"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/UnknownOlympus/athena/internal/services/employees"
	mocks "github.com/UnknownOlympus/athena/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T) (*employees.Directory, *mocks.EmployeeAPI, *metrics.Metrics) {
	t.Helper()

	api := mocks.NewEmployeeAPI(t)
	m := metrics.NewMetrics(prometheus.NewRegistry())

	return employees.NewDirectory(slog.New(slog.DiscardHandler), api, m), api, m
}

func filledForm() *form.Form {
	f := form.New(nil, "")
	f.Draft = form.Draft{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Position:   "Engineer",
		Department: "R&D",
		Salary:     "5200",
	}

	return f
}

func TestDirectory_List(t *testing.T) {
	t.Parallel()

	dir, api, _ := newDirectory(t)
	ctx := context.Background()
	want := []models.Employee{{ID: "1", FirstName: "Ada"}}

	api.On("ListEmployees", ctx).Return(want, nil).Once()
	api.On("ListEmployees", ctx).Return(nil, &client.APIError{StatusCode: 500, Message: "boom"}).Once()

	got, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = dir.List(ctx)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch employees", err.Error())

	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestDirectory_Get(t *testing.T) {
	t.Parallel()

	dir, api, _ := newDirectory(t)
	ctx := context.Background()

	api.On("GetEmployee", ctx, "e1").Return(models.Employee{ID: "e1"}, nil).Once()
	api.On("GetEmployee", ctx, "gone").Return(models.Employee{}, &client.APIError{StatusCode: 404}).Once()
	api.On("GetEmployee", ctx, "err").Return(models.Employee{}, errors.New("timeout")).Once()

	employee, err := dir.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", employee.ID)

	_, err = dir.Get(ctx, "gone")
	require.ErrorIs(t, err, employees.ErrNotFound)

	_, err = dir.Get(ctx, "err")
	require.Error(t, err)
	assert.NotErrorIs(t, err, employees.ErrNotFound)
	assert.Equal(t, "Failed to fetch employee details", err.Error())
}

func TestDirectory_Create_ValidationBlocksNetwork(t *testing.T) {
	t.Parallel()

	dir, api, m := newDirectory(t)

	f := filledForm()
	f.Draft.Email = "bob"
	f.Draft.Salary = "0"

	outcome := dir.Create(context.Background(), f)

	assert.Equal(t, employees.Outcome{}, outcome)
	assert.Equal(t, "Email is invalid", f.Errors[form.FieldEmail])
	assert.Equal(t, "Salary must be a positive number", f.Errors[form.FieldSalary])
	api.AssertNotCalled(t, "CreateEmployee", mock.Anything, mock.Anything)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues(form.FieldEmail)), 0)
}

func TestDirectory_Create(t *testing.T) {
	t.Parallel()

	dir, api, _ := newDirectory(t)
	ctx := context.Background()

	api.On("CreateEmployee", ctx, mock.MatchedBy(func(sub models.Submission) bool {
		return len(sub.Body) > 0
	})).Return(nil).Once()

	outcome := dir.Create(ctx, filledForm())
	assert.Equal(t, employees.Outcome{Saved: true}, outcome)
	api.AssertNumberOfCalls(t, "CreateEmployee", 1)
}

func TestDirectory_Create_Failure(t *testing.T) {
	t.Parallel()

	dir, api, _ := newDirectory(t)
	ctx := context.Background()

	api.On("CreateEmployee", ctx, mock.Anything).
		Return(&client.APIError{StatusCode: 400, Message: "Email already exists"}).Once()
	api.On("CreateEmployee", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

	assert.Equal(t, employees.Outcome{Message: "Email already exists"}, dir.Create(ctx, filledForm()))
	assert.Equal(t, employees.Outcome{Message: "Failed to create employee"}, dir.Create(ctx, filledForm()))
}

func TestDirectory_Update(t *testing.T) {
	t.Parallel()

	dir, api, _ := newDirectory(t)
	ctx := context.Background()

	api.On("UpdateEmployee", ctx, "e1", mock.Anything).Return(nil).Once()
	api.On("UpdateEmployee", ctx, "e2", mock.Anything).Return(&client.APIError{StatusCode: 500}).Once()

	assert.Equal(t, employees.Outcome{Saved: true}, dir.Update(ctx, "e1", filledForm()))
	assert.Equal(t, employees.Outcome{Message: "Failed to update employee"}, dir.Update(ctx, "e2", filledForm()))
}

func TestDirectory_Delete(t *testing.T) {
	t.Parallel()

	dir, api, _ := newDirectory(t)
	ctx := context.Background()

	api.On("DeleteEmployee", ctx, "e1").Return(nil).Once()
	api.On("DeleteEmployee", ctx, "e2").Return(&client.APIError{StatusCode: 500, Message: "db down"}).Once()

	require.NoError(t, dir.Delete(ctx, "e1"))

	err := dir.Delete(ctx, "e2")
	require.Error(t, err)
	assert.Equal(t, "Failed to delete employee", err.Error())
}

func TestDirectory_Search(t *testing.T) {
	t.Parallel()

	t.Run("empty filter makes no call", func(t *testing.T) {
		t.Parallel()

		dir, api, _ := newDirectory(t)

		result := dir.Search(context.Background(), models.SearchFilter{Department: "  "})

		assert.Equal(t, "Please enter at least one search criteria", result.Error)
		assert.False(t, result.Searched)
		api.AssertNotCalled(t, "SearchEmployees", mock.Anything, mock.Anything)
	})

	t.Run("zero results", func(t *testing.T) {
		t.Parallel()

		dir, api, _ := newDirectory(t)
		filter := models.SearchFilter{Position: "Lead"}
		api.On("SearchEmployees", mock.Anything, filter).Return([]models.Employee{}, nil).Once()

		result := dir.Search(context.Background(), filter)

		assert.True(t, result.Searched)
		assert.Empty(t, result.Employees)
		assert.Empty(t, result.Error)
		assert.Equal(t, filter, result.Filter)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()

		dir, api, _ := newDirectory(t)
		filter := models.SearchFilter{Department: "R&D"}
		api.On("SearchEmployees", mock.Anything, filter).Return(nil, assert.AnError).Once()

		result := dir.Search(context.Background(), filter)

		assert.False(t, result.Searched)
		assert.Equal(t, "Failed to search employees", result.Error)
	})
}
