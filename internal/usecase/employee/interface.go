package employee

import "context"

// Service defines the interface for employee search and management operations.
type Service interface {
	FindEmployeesByExample(ctx context.Context, probe EmployeeProbe) ([]Employee, error)
	FindEmployeesWithCustomMatcher(ctx context.Context, in SearchRequest) ([]Employee, error)
	FindOneEmployeeByExample(ctx context.Context, probe EmployeeProbe) (*Employee, error)
	CountEmployeesByExample(ctx context.Context, probe EmployeeProbe) (int64, error)
	ExistsByExample(ctx context.Context, probe EmployeeProbe) (bool, error)
	GetEmployee(ctx context.Context, in GetEmployeeRequest) (*Employee, error)
	CreateEmployee(ctx context.Context, in CreateEmployeeRequest) (*CreateEmployeeResponse, error)
	ListEmployees(ctx context.Context, in ListEmployeesRequest) (*ListEmployeesResponse, error)
}
