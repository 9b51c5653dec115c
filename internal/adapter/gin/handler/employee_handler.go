package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employee-qbe-service/internal/usecase/employee"
	pkgerrors "employee-qbe-service/pkg/errors"
	"employee-qbe-service/pkg/logger"
	"employee-qbe-service/pkg/security"
)

// EmployeeHandler handles HTTP requests for employee search operations
type EmployeeHandler struct {
	uc  employee.Service
	log *zap.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler instance
func NewEmployeeHandler(uc employee.Service, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		uc:  uc,
		log: log,
	}
}

// EmployeeRequest is the JSON example sent to the search endpoints.
// Omitted or zero fields are not matched on.
type EmployeeRequest struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
}

// CreateEmployeeRequest represents the HTTP request body for creating an employee
type CreateEmployeeRequest struct {
	FirstName  string  `json:"firstName" binding:"required,max=100"`
	LastName   string  `json:"lastName" binding:"required,max=100"`
	Department string  `json:"department" binding:"max=100"`
	Position   string  `json:"position" binding:"max=100"`
	Salary     float64 `json:"salary" binding:"gte=0"`
}

// EmployeeResponse represents the HTTP response for employee data
type EmployeeResponse struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
}

// ListEmployeesResponse represents the HTTP response for listing employees
type ListEmployeesResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	Pagination *Pagination        `json:"pagination,omitempty"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (r EmployeeRequest) toProbe() employee.EmployeeProbe {
	return employee.EmployeeProbe{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Department: r.Department,
		Position:   r.Position,
		Salary:     r.Salary,
	}
}

func toResponse(e employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
	}
}

func toResponseList(list []employee.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(list))
	for i, e := range list {
		out[i] = toResponse(e)
	}
	return out
}

// bindExample decodes the JSON example body, answering 400 when it is malformed.
func (h *EmployeeHandler) bindExample(c *gin.Context) (employee.EmployeeProbe, bool) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger(c).Warn("Invalid example request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return employee.EmployeeProbe{}, false
	}
	return req.toProbe(), true
}

// SearchEmployees handles GET /api/employees/search
func (h *EmployeeHandler) SearchEmployees(c *gin.Context) {
	firstName, err := security.ValidateSearchParam("firstName", c.Query("firstName"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	department, err := security.ValidateSearchParam("department", c.Query("department"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	list, err := h.uc.FindEmployeesWithCustomMatcher(c.Request.Context(), employee.SearchRequest{
		FirstName:  firstName,
		Department: department,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponseList(list))
}

// FindByExample handles POST /api/employees/search/example
func (h *EmployeeHandler) FindByExample(c *gin.Context) {
	probe, ok := h.bindExample(c)
	if !ok {
		return
	}

	list, err := h.uc.FindEmployeesByExample(c.Request.Context(), probe)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponseList(list))
}

// FindOneByExample handles POST /api/employees/search/example/one
func (h *EmployeeHandler) FindOneByExample(c *gin.Context) {
	probe, ok := h.bindExample(c)
	if !ok {
		return
	}

	e, err := h.uc.FindOneEmployeeByExample(c.Request.Context(), probe)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(*e))
}

// CountByExample handles POST /api/employees/count. The body is a bare number.
func (h *EmployeeHandler) CountByExample(c *gin.Context) {
	probe, ok := h.bindExample(c)
	if !ok {
		return
	}

	n, err := h.uc.CountEmployeesByExample(c.Request.Context(), probe)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

// ExistsByExample handles POST /api/employees/exists. The body is a bare boolean.
func (h *EmployeeHandler) ExistsByExample(c *gin.Context) {
	probe, ok := h.bindExample(c)
	if !ok {
		return
	}

	exists, err := h.uc.ExistsByExample(c.Request.Context(), probe)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, exists)
}

// CreateEmployee handles POST /api/employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger(c).Warn("Invalid create employee request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.CreateEmployee(c.Request.Context(), employee.CreateEmployeeRequest{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Position:   req.Position,
		Salary:     req.Salary,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": resp.ID,
	})
}

// GetEmployee handles GET /api/employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger(c).Warn("Invalid employee ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Employee ID must be a valid number",
		})
		return
	}

	e, err := h.uc.GetEmployee(c.Request.Context(), employee.GetEmployeeRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(*e))
}

// ListEmployees handles GET /api/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}

	resp, err := h.uc.ListEmployees(c.Request.Context(), employee.ListEmployeesRequest{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	var pagination *Pagination
	if resp.Pagination != nil {
		pagination = &Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		}
	}

	c.JSON(http.StatusOK, ListEmployeesResponse{
		Employees:  toResponseList(resp.Employees),
		Pagination: pagination,
	})
}

func (h *EmployeeHandler) logger(c *gin.Context) *zap.Logger {
	return logger.WithContext(c.Request.Context(), h.log)
}

// handleError converts usecase errors to HTTP responses. Internal errors
// never expose their cause to the client.
func (h *EmployeeHandler) handleError(c *gin.Context, err error) {
	code, kind := pkgerrors.HTTPStatusOf(err)

	if code >= http.StatusInternalServerError {
		h.logger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(code, ErrorResponse{
			Error:   kind,
			Message: "An internal error occurred",
		})
		return
	}

	h.logger(c).Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", code), zap.Error(err))
	c.JSON(code, ErrorResponse{
		Error:   kind,
		Message: err.Error(),
	})
}
