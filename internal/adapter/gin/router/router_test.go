package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"employee-qbe-service/internal/adapter/db/postgres"
	"employee-qbe-service/internal/adapter/gin/handler"
	"employee-qbe-service/internal/metrics"
	"employee-qbe-service/internal/usecase/employee"
)

var seed = []postgres.EmployeeSchema{
	{FirstName: "John", LastName: "Smith", Department: "IT", Position: "Software Engineer", Salary: 95000},
	{FirstName: "Jane", LastName: "Doe", Department: "IT", Position: "Developer", Salary: 85000},
	{FirstName: "Johnny", LastName: "Walker", Department: "Engineering", Position: "QA Engineer", Salary: 78000},
	{FirstName: "Emily", LastName: "Brown", Department: "HR", Position: "Manager", Salary: 90000},
}

func newTestRouter(t testing.TB, checks map[string]HealthCheck) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&postgres.EmployeeSchema{}))
	rows := make([]postgres.EmployeeSchema, len(seed))
	copy(rows, seed)
	require.NoError(t, db.Create(&rows).Error)

	log := zaptest.NewLogger(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	uc := employee.New(postgres.NewEmployeeRepoPG(db, m, log), log)
	r := SetupRouter(handler.NewEmployeeHandler(uc, log), Options{
		Metrics:      m,
		Gatherer:     reg,
		HealthChecks: checks,
		ServiceName:  "employee-qbe-service",
	}, log)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_QueryByExampleEndpoints(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("search is case-insensitive contains", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/employees/search?firstName=john", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got []handler.EmployeeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "John", got[0].FirstName)
		assert.Equal(t, "Johnny", got[1].FirstName)
	})

	t.Run("search without params returns everyone", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/employees/search", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got []handler.EmployeeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, len(seed))
	})

	t.Run("search accepts punctuation in titles", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/employees/search?department=R%26D%20--%20Lab", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("search rejects control characters", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/employees/search?firstName=jo%00hn", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("find by example", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/employees/search/example", `{"department":"IT"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got []handler.EmployeeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("find one by example", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/employees/search/example/one", `{"firstName":"Emily"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got handler.EmployeeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Brown", got.LastName)
	})

	t.Run("find one without match is 404", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/employees/search/example/one", `{"firstName":"Nobody"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "no matching employee found")
	})

	t.Run("count is a bare number", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/employees/count", `{"department":"IT"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", strings.TrimSpace(w.Body.String()))
	})

	t.Run("exists is a bare boolean", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/employees/exists", `{"department":"Legal"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "false", strings.TrimSpace(w.Body.String()))
	})
}

func TestRouter_CreateThenGet(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/employees", `{"firstName":"Grace","lastName":"Hopper","department":"Engineering","salary":130000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(len(seed)+1), created.ID)

	w = do(r, http.MethodGet, "/api/employees/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hopper")

	w = do(r, http.MethodGet, "/api/employees/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/employees?page=1&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list handler.ListEmployeesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Employees, 2)
	assert.Equal(t, int64(len(seed)+1), list.Pagination.Total)
}

func TestRouter_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := newTestRouter(t, map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		w := do(r, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"healthy"`)
	})

	t.Run("unhealthy dependency", func(t *testing.T) {
		r := newTestRouter(t, map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		w := do(r, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	do(r, http.MethodPost, "/api/employees/count", `{}`)

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `employee_qbe_http_requests_total{method="POST",route="/api/employees/count",status="200"} 1`)
	assert.Contains(t, w.Body.String(), `employee_qbe_db_query_duration_seconds_count{query_type="count"} 1`)
}

func TestRouter_SwaggerUI(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")
}
