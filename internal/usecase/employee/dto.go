package employee

import domain "employee-qbe-service/internal/domain/employee"

// EmployeeProbe is a partially filled employee used as a search example.
// Zero-valued fields are not part of the search.
type EmployeeProbe struct {
	ID         int64   `validate:"gte=0"`
	FirstName  string  `validate:"max=100"`
	LastName   string  `validate:"max=100"`
	Department string  `validate:"max=100"`
	Position   string  `validate:"max=100"`
	Salary     float64 `validate:"gte=0"`
}

// SearchRequest represents the parameters of the fuzzy first name / department search.
type SearchRequest struct {
	FirstName  string `validate:"max=100"`
	Department string `validate:"max=100"`
}

// CreateEmployeeRequest represents the request payload for creating a new employee.
type CreateEmployeeRequest struct {
	FirstName  string  `validate:"required,max=100"`
	LastName   string  `validate:"required,max=100"`
	Department string  `validate:"max=100"`
	Position   string  `validate:"max=100"`
	Salary     float64 `validate:"gte=0"`
}

// CreateEmployeeResponse represents the response payload after creating an employee.
type CreateEmployeeResponse struct {
	ID int64
}

// GetEmployeeRequest represents the request payload for retrieving an employee.
type GetEmployeeRequest struct {
	ID int64
}

// ListEmployeesRequest represents the request payload for listing employees.
type ListEmployeesRequest struct {
	Page  int64
	Limit int64
}

// ListEmployeesResponse represents the response payload for employee listing.
type ListEmployeesResponse struct {
	Employees  []Employee
	Pagination *domain.Pagination
}

// Employee represents an employee DTO (Data Transfer Object) for API responses.
type Employee struct {
	ID         int64
	FirstName  string
	LastName   string
	Department string
	Position   string
	Salary     float64
}

func (p EmployeeProbe) toDomain() domain.Employee {
	return domain.Employee{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Department: p.Department,
		Position:   p.Position,
		Salary:     p.Salary,
	}
}

func fromDomain(e domain.Employee) Employee {
	return Employee{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
	}
}

func fromDomainList(list []domain.Employee) []Employee {
	out := make([]Employee, len(list))
	for i, e := range list {
		out[i] = fromDomain(e)
	}
	return out
}
