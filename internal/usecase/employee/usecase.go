package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "employee-qbe-service/internal/domain/employee"
	pkgerrors "employee-qbe-service/pkg/errors"
	"employee-qbe-service/pkg/qbe"
)

// Repository defines the data access operations the employee usecase relies on.
// Besides plain CRUD it exposes the Query By Example surface, which lets
// callers filter on any combination of populated probe fields.
type Repository interface {
	Create(ctx context.Context, e *domain.Employee) (int64, error)                           // Create a new employee
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)                         // Retrieve employee by ID
	List(ctx context.Context, page, limit int64) ([]domain.Employee, int64, error)           // List employees with pagination
	FindAll(ctx context.Context, ex qbe.Example[domain.Employee]) ([]domain.Employee, error) // All matches of the example
	FindOne(ctx context.Context, ex qbe.Example[domain.Employee]) (*domain.Employee, error)  // Single match, nil when none
	Count(ctx context.Context, ex qbe.Example[domain.Employee]) (int64, error)               // Number of matches
	Exists(ctx context.Context, ex qbe.Example[domain.Employee]) (bool, error)               // Whether anything matches
}

// ErrNoMatchingEmployee is returned by FindOneEmployeeByExample when the example matches nothing.
var ErrNoMatchingEmployee = pkgerrors.NewNotFoundError("employee", "no matching employee found")

// Usecase implements the employee search operations on top of a Repository.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

var _ Service = (*Usecase)(nil)

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// customMatcher is the matcher behind the first name / department search:
// case-insensitive substring matching on the populated fields.
func customMatcher() qbe.Matcher {
	return qbe.Matching().
		WithIgnoreCase().
		WithStringMatcher(qbe.Containing).
		WithIgnoreNullValues()
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// with a human-readable message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			case "gte":
				messages = append(messages, fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

func (uc *Usecase) validateProbe(probe EmployeeProbe) error {
	if err := uc.validate.Struct(probe); err != nil {
		uc.log.Warn("probe validation failed", zap.Error(err))
		return formatValidationError(err)
	}
	return nil
}

// FindEmployeesByExample returns every employee matching the probe with the
// default matcher: exact, case-sensitive, unset fields ignored.
func (uc *Usecase) FindEmployeesByExample(ctx context.Context, probe EmployeeProbe) ([]Employee, error) {
	if err := uc.validateProbe(probe); err != nil {
		return nil, err
	}

	uc.log.Info("finding employees by example", zap.Any("probe", probe))

	list, err := uc.repo.FindAll(ctx, qbe.Of(probe.toDomain()))
	if err != nil {
		uc.log.Error("failed to find employees by example", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to find employees", err)
	}
	return fromDomainList(list), nil
}

// FindEmployeesWithCustomMatcher searches by first name and department using
// case-insensitive "contains" matching. Empty parameters are not filtered on.
func (uc *Usecase) FindEmployeesWithCustomMatcher(ctx context.Context, in SearchRequest) ([]Employee, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("search validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	uc.log.Info("searching employees", zap.String("first_name", in.FirstName), zap.String("department", in.Department))

	probe := domain.Employee{FirstName: in.FirstName, Department: in.Department}
	list, err := uc.repo.FindAll(ctx, qbe.OfMatcher(probe, customMatcher()))
	if err != nil {
		uc.log.Error("failed to search employees", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to search employees", err)
	}
	return fromDomainList(list), nil
}

// FindOneEmployeeByExample returns the single employee matching the probe.
// It fails with ErrNoMatchingEmployee when nothing matches.
func (uc *Usecase) FindOneEmployeeByExample(ctx context.Context, probe EmployeeProbe) (*Employee, error) {
	if err := uc.validateProbe(probe); err != nil {
		return nil, err
	}

	uc.log.Info("finding one employee by example", zap.Any("probe", probe))

	e, err := uc.repo.FindOne(ctx, qbe.Of(probe.toDomain()))
	if err != nil {
		if errors.Is(err, qbe.ErrNonUniqueResult) {
			return nil, pkgerrors.NewInternalError("example matched more than one employee", err)
		}
		uc.log.Error("failed to find employee by example", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to find employee", err)
	}
	if e == nil {
		uc.log.Debug("no employee matched example")
		return nil, ErrNoMatchingEmployee
	}

	out := fromDomain(*e)
	return &out, nil
}

// CountEmployeesByExample returns the number of employees matching the probe.
func (uc *Usecase) CountEmployeesByExample(ctx context.Context, probe EmployeeProbe) (int64, error) {
	if err := uc.validateProbe(probe); err != nil {
		return 0, err
	}

	n, err := uc.repo.Count(ctx, qbe.Of(probe.toDomain()))
	if err != nil {
		uc.log.Error("failed to count employees by example", zap.Error(err))
		return 0, pkgerrors.NewInternalError("failed to count employees", err)
	}
	return n, nil
}

// ExistsByExample reports whether at least one employee matches the probe.
func (uc *Usecase) ExistsByExample(ctx context.Context, probe EmployeeProbe) (bool, error) {
	if err := uc.validateProbe(probe); err != nil {
		return false, err
	}

	ok, err := uc.repo.Exists(ctx, qbe.Of(probe.toDomain()))
	if err != nil {
		uc.log.Error("failed to check employee existence", zap.Error(err))
		return false, pkgerrors.NewInternalError("failed to check employee existence", err)
	}
	return ok, nil
}

// GetEmployee retrieves an employee by ID.
func (uc *Usecase) GetEmployee(ctx context.Context, in GetEmployeeRequest) (*Employee, error) {
	if in.ID <= 0 {
		uc.log.Warn("get employee validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, pkgerrors.NewValidationError("id", "invalid employee id")
	}

	e, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to get employee", zap.Int64("id", in.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get employee", err)
	}
	if e == nil {
		return nil, pkgerrors.NewNotFoundError("employee", fmt.Sprintf("employee %d not found", in.ID))
	}

	out := fromDomain(*e)
	return &out, nil
}

// CreateEmployee validates and stores a new employee.
func (uc *Usecase) CreateEmployee(ctx context.Context, in CreateEmployeeRequest) (*CreateEmployeeResponse, error) {
	uc.log.Info("creating employee", zap.String("first_name", in.FirstName), zap.String("last_name", in.LastName))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	id, err := uc.repo.Create(ctx, &domain.Employee{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: in.Department,
		Position:   in.Position,
		Salary:     in.Salary,
	})
	if err != nil {
		uc.log.Error("failed to create employee", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create employee", err)
	}
	return &CreateEmployeeResponse{ID: id}, nil
}

// ListEmployees retrieves a page of employees ordered by ID.
func (uc *Usecase) ListEmployees(ctx context.Context, in ListEmployeesRequest) (*ListEmployeesResponse, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 10
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	uc.log.Info("listing employees", zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))

	list, total, err := uc.repo.List(ctx, in.Page, in.Limit)
	if err != nil {
		uc.log.Error("failed to list employees", zap.Int64("page", in.Page), zap.Int64("limit", in.Limit), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list employees", err)
	}

	return &ListEmployeesResponse{
		Employees:  fromDomainList(list),
		Pagination: domain.NewPagination(total, in.Page, in.Limit),
	}, nil
}
