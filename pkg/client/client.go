// Package client is a Go client for the employee search REST API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Employee is an employee as returned by the API. Used as a probe, zero
// fields are left out of the request and therefore not matched on.
type Employee struct {
	ID         int64   `json:"id,omitempty"`
	FirstName  string  `json:"firstName,omitempty"`
	LastName   string  `json:"lastName,omitempty"`
	Department string  `json:"department,omitempty"`
	Position   string  `json:"position,omitempty"`
	Salary     float64 `json:"salary,omitempty"`
}

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client calls the /api/employees endpoints.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New creates a client for the service listening at baseURL.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, log: log}
}

func (c *Client) do(ctx context.Context, method, path string, build func(*resty.Request), result any) error {
	apiErr := &APIError{}
	req := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr)
	if build != nil {
		build(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Error("employee API call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Code == "" {
			apiErr.Code = http.StatusText(resp.StatusCode())
		}
		c.log.Debug("employee API returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("request_id", resp.Header().Get("X-Request-ID")),
		)
		return apiErr
	}
	return nil
}

// Search runs the case-insensitive first name / department search.
// Empty arguments are not sent.
func (c *Client) Search(ctx context.Context, firstName, department string) ([]Employee, error) {
	var out []Employee
	err := c.do(ctx, http.MethodGet, "/api/employees/search", func(r *resty.Request) {
		if firstName != "" {
			r.SetQueryParam("firstName", firstName)
		}
		if department != "" {
			r.SetQueryParam("department", department)
		}
	}, &out)
	return out, err
}

// FindByExample returns every employee exactly matching the probe.
func (c *Client) FindByExample(ctx context.Context, probe Employee) ([]Employee, error) {
	var out []Employee
	err := c.do(ctx, http.MethodPost, "/api/employees/search/example", body(probe), &out)
	return out, err
}

// FindOneByExample returns the employee matching the probe. A probe that
// matches nothing yields an error for which IsNotFound is true.
func (c *Client) FindOneByExample(ctx context.Context, probe Employee) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPost, "/api/employees/search/example/one", body(probe), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Count returns the number of employees matching the probe.
func (c *Client) Count(ctx context.Context, probe Employee) (int64, error) {
	var n int64
	err := c.do(ctx, http.MethodPost, "/api/employees/count", body(probe), &n)
	return n, err
}

// Exists reports whether any employee matches the probe.
func (c *Client) Exists(ctx context.Context, probe Employee) (bool, error) {
	var ok bool
	err := c.do(ctx, http.MethodPost, "/api/employees/exists", body(probe), &ok)
	return ok, err
}

func body(probe Employee) func(*resty.Request) {
	return func(r *resty.Request) { r.SetBody(probe) }
}
