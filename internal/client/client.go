package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/UnknownOlympus/athena/internal/parser"
)

const jsonContentType = "application/json"

// Client calls the employee backend. Every path is resolved against baseURL.
type Client struct {
	log     *slog.Logger
	http    *http.Client
	baseURL string
	metrics *metrics.Metrics
}

// New creates a backend client.
func New(log *slog.Logger, httpClient *http.Client, baseURL string, metrics *metrics.Metrics) *Client {
	return &Client{
		log:     log.With(slog.String("division", "client")),
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
	}
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a backend token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	body, err := c.do(ctx, "login", http.MethodPost, "/users/login", bytes.NewReader(payload), jsonContentType)
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
		Data  struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err = json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}

	token := resp.Token
	if token == "" {
		token = resp.Data.Token
	}
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}

// Signup registers a new account. It does not log the account in.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	payload, err := json.Marshal(map[string]string{"username": username, "email": email, "password": password})
	if err != nil {
		return fmt.Errorf("failed to encode signup request: %w", err)
	}

	_, err = c.do(ctx, "signup", http.MethodPost, "/users/signup", bytes.NewReader(payload), jsonContentType)

	return err
}

// ListEmployees fetches the full employee collection.
func (c *Client) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	body, err := c.do(ctx, "list_employees", http.MethodGet, "/employees", nil, "")
	if err != nil {
		return nil, err
	}

	employees, err := parser.Employees(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse employee list: %w", err)
	}

	return employees, nil
}

// GetEmployee fetches one employee. ErrNotFound is returned when the backend has no such record.
func (c *Client) GetEmployee(ctx context.Context, id string) (models.Employee, error) {
	body, err := c.do(ctx, "get_employee", http.MethodGet, employeePath(id), nil, "")
	if err != nil {
		return models.Employee{}, err
	}

	employee, found, err := parser.Employee(bytes.NewReader(body))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to parse employee %s: %w", id, err)
	}
	if !found {
		return models.Employee{}, ErrNotFound
	}

	return employee, nil
}

// CreateEmployee posts a multipart submission to the create endpoint.
func (c *Client) CreateEmployee(ctx context.Context, sub models.Submission) error {
	_, err := c.do(ctx, "create_employee", http.MethodPost, "/employees", bytes.NewReader(sub.Body), sub.ContentType)

	return err
}

// UpdateEmployee puts a multipart submission to the update endpoint.
func (c *Client) UpdateEmployee(ctx context.Context, id string, sub models.Submission) error {
	_, err := c.do(
		ctx, "update_employee", http.MethodPut, employeePath(id), bytes.NewReader(sub.Body), sub.ContentType,
	)

	return err
}

// DeleteEmployee removes one employee.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete_employee", http.MethodDelete, employeePath(id), nil, "")

	return err
}

// SearchEmployees queries the backend with the non-empty filters only.
func (c *Client) SearchEmployees(ctx context.Context, filter models.SearchFilter) ([]models.Employee, error) {
	path := "/employees/search"
	if query := filter.Query().Encode(); query != "" {
		path += "?" + query
	}

	body, err := c.do(ctx, "search_employees", http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	employees, err := parser.Employees(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	return employees, nil
}

// do sends a single request and returns the body of a 2xx response.
// Any other status becomes an *APIError carrying the backend message.
func (c *Client) do(
	ctx context.Context,
	endpoint, method, path string,
	payload io.Reader,
	contentType string,
) ([]byte, error) {
	status := "error"
	startTime := time.Now()
	defer func() {
		c.metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
		c.metrics.BackendRequests.WithLabelValues(endpoint, status).Inc()
	}()

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", target, err)
	}

	req.Header.Set("Accept", jsonContentType)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "backend request failed", "endpoint", endpoint, sl.Err(err))
		return nil, fmt.Errorf("failed to request %s: %w", target, err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    parser.ErrorMessage(resp.Header.Get("Content-Type"), body),
		}
		c.log.DebugContext(ctx, "backend rejected request", "endpoint", endpoint, sl.Err(apiErr))

		return nil, apiErr
	}

	return body, nil
}

func employeePath(id string) string {
	return "/employees/" + url.PathEscape(id)
}
