package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"employee-qbe-service/internal/domain/employee"
	"employee-qbe-service/internal/metrics"
	"employee-qbe-service/pkg/qbe"
)

// EmployeeRepoPG implements the Repository interface using PostgreSQL and GORM.
type EmployeeRepoPG struct {
	db       *gorm.DB                      // GORM database connection
	examples *qbe.Executor[EmployeeSchema] // Query By Example executor over the employees table
	metrics  *metrics.Metrics              // optional, nil disables query timing
	log      *zap.Logger                   // Structured logger for database operations
}

// NewEmployeeRepoPG creates a new instance of EmployeeRepoPG.
func NewEmployeeRepoPG(db *gorm.DB, m *metrics.Metrics, log *zap.Logger) *EmployeeRepoPG {
	return &EmployeeRepoPG{
		db:       db,
		examples: qbe.NewExecutor[EmployeeSchema](db),
		metrics:  m,
		log:      log,
	}
}

// EmployeeSchema represents the database schema for the employees table.
type EmployeeSchema struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"` // Unique identifier with auto-increment
	FirstName  string  `gorm:"size:100;not null"`
	LastName   string  `gorm:"size:100;not null"`
	Department string  `gorm:"size:100;index"`
	Position   string  `gorm:"size:100"`
	Salary     float64 `gorm:"type:decimal(12,2)"`
}

// TableName specifies the table name for the EmployeeSchema model.
func (EmployeeSchema) TableName() string {
	return "employees"
}

func toSchema(e employee.Employee) EmployeeSchema {
	return EmployeeSchema{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
	}
}

func toDomain(m EmployeeSchema) employee.Employee {
	return employee.Employee{
		ID:         m.ID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Department: m.Department,
		Position:   m.Position,
		Salary:     m.Salary,
	}
}

func toDomainList(models []EmployeeSchema) []employee.Employee {
	out := make([]employee.Employee, len(models))
	for i, m := range models {
		out[i] = toDomain(m)
	}
	return out
}

// toSchemaExample rebinds a domain example onto the persistence model so
// that column names come from EmployeeSchema.
func toSchemaExample(ex qbe.Example[employee.Employee]) qbe.Example[EmployeeSchema] {
	return qbe.OfMatcher(toSchema(ex.Probe()), ex.Matcher())
}

// Create inserts a new employee into the database.
func (r *EmployeeRepoPG) Create(ctx context.Context, e *employee.Employee) (int64, error) {
	if e == nil {
		return 0, errors.New("employee cannot be nil")
	}
	defer r.metrics.ObserveQuery("create", time.Now())

	model := toSchema(*e)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create employee in db", zap.Error(err), zap.String("last_name", e.LastName))
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}

	r.log.Info("employee created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves an employee by its unique ID. It returns nil, nil when no row exists.
func (r *EmployeeRepoPG) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	defer r.metrics.ObserveQuery("get_by_id", time.Now())

	var model EmployeeSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("employee not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get employee from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	e := toDomain(model)
	return &e, nil
}

// List retrieves a page of employees ordered by ID together with the total row count.
func (r *EmployeeRepoPG) List(ctx context.Context, page, limit int64) ([]employee.Employee, int64, error) {
	defer r.metrics.ObserveQuery("list", time.Now())

	var total int64
	if err := r.db.WithContext(ctx).Model(&EmployeeSchema{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count employees", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	var models []EmployeeSchema
	if err := r.db.WithContext(ctx).Order("id").Offset(int((page - 1) * limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list employees from db", zap.Error(err), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	return toDomainList(models), total, nil
}

// FindAll returns every employee matching the example.
func (r *EmployeeRepoPG) FindAll(ctx context.Context, ex qbe.Example[employee.Employee]) ([]employee.Employee, error) {
	defer r.metrics.ObserveQuery("find_all", time.Now())

	models, err := r.examples.FindAll(ctx, toSchemaExample(ex))
	if err != nil {
		r.log.Error("failed to find employees by example", zap.Error(err), zap.String("matcher", ex.Matcher().Fingerprint()))
		return nil, err
	}
	return toDomainList(models), nil
}

// FindOne returns the single employee matching the example, nil when there is
// none, and qbe.ErrNonUniqueResult when several rows match.
func (r *EmployeeRepoPG) FindOne(ctx context.Context, ex qbe.Example[employee.Employee]) (*employee.Employee, error) {
	defer r.metrics.ObserveQuery("find_one", time.Now())

	model, err := r.examples.FindOne(ctx, toSchemaExample(ex))
	if err != nil {
		if errors.Is(err, qbe.ErrNonUniqueResult) {
			r.log.Warn("example matched more than one employee", zap.String("matcher", ex.Matcher().Fingerprint()))
		} else {
			r.log.Error("failed to find employee by example", zap.Error(err))
		}
		return nil, err
	}
	if model == nil {
		return nil, nil
	}

	e := toDomain(*model)
	return &e, nil
}

// Count returns the number of employees matching the example.
func (r *EmployeeRepoPG) Count(ctx context.Context, ex qbe.Example[employee.Employee]) (int64, error) {
	defer r.metrics.ObserveQuery("count", time.Now())

	n, err := r.examples.Count(ctx, toSchemaExample(ex))
	if err != nil {
		r.log.Error("failed to count employees by example", zap.Error(err))
		return 0, err
	}
	return n, nil
}

// Exists reports whether any employee matches the example.
func (r *EmployeeRepoPG) Exists(ctx context.Context, ex qbe.Example[employee.Employee]) (bool, error) {
	defer r.metrics.ObserveQuery("exists", time.Now())

	ok, err := r.examples.Exists(ctx, toSchemaExample(ex))
	if err != nil {
		r.log.Error("failed to check employee existence by example", zap.Error(err))
		return false, err
	}
	return ok, nil
}
