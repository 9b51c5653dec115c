package employee

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "employee-qbe-service/internal/domain/employee"
	pkgerrors "employee-qbe-service/pkg/errors"
	"employee-qbe-service/pkg/qbe"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, e *domain.Employee) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, page, limit int64) ([]domain.Employee, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]domain.Employee), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) FindAll(ctx context.Context, ex qbe.Example[domain.Employee]) ([]domain.Employee, error) {
	args := m.Called(ctx, ex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *MockRepository) FindOne(ctx context.Context, ex qbe.Example[domain.Employee]) (*domain.Employee, error) {
	args := m.Called(ctx, ex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, ex qbe.Example[domain.Employee]) (int64, error) {
	args := m.Called(ctx, ex)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, ex qbe.Example[domain.Employee]) (bool, error) {
	args := m.Called(ctx, ex)
	return args.Bool(0), args.Error(1)
}

func TestNew_SatisfiesService(t *testing.T) {
	var svc Service = New(new(MockRepository), zaptest.NewLogger(t))
	assert.NotNil(t, svc)
}

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	uc := New(mockRepo, zaptest.NewLogger(t))
	return uc, mockRepo
}

var (
	john = domain.Employee{ID: 1, FirstName: "John", LastName: "Smith", Department: "IT", Position: "Software Engineer", Salary: 95000}
	jane = domain.Employee{ID: 2, FirstName: "Jane", LastName: "Doe", Department: "IT", Position: "Developer", Salary: 85000}
)

// ==================== FIND BY EXAMPLE ====================

func TestFindEmployeesByExample_UsesDefaultMatcher(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	var captured qbe.Example[domain.Employee]
	mockRepo.On("FindAll", ctx, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(qbe.Example[domain.Employee]) }).
		Return([]domain.Employee{john, jane}, nil)

	got, err := uc.FindEmployeesByExample(ctx, EmployeeProbe{Department: "IT"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "John", got[0].FirstName)
	assert.Equal(t, "Jane", got[1].FirstName)

	assert.Equal(t, domain.Employee{Department: "IT"}, captured.Probe())
	m := captured.Matcher()
	assert.False(t, m.IsIgnoreCaseEnabled())
	assert.Equal(t, qbe.Default, m.DefaultStringMatcher())
	assert.Equal(t, qbe.Ignore, m.NullHandler())
	assert.Equal(t, qbe.All, m.MatchMode())

	mockRepo.AssertExpectations(t)
}

func TestFindEmployeesByExample_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindAll", ctx, mock.Anything).Return(nil, errors.New("connection refused"))

	got, err := uc.FindEmployeesByExample(ctx, EmployeeProbe{LastName: "Smith"})
	assert.Nil(t, got)

	var internal *pkgerrors.InternalError
	require.ErrorAs(t, err, &internal)
	assert.Equal(t, "failed to find employees", internal.Message)
}

func TestFindEmployeesByExample_ValidationError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	_, err := uc.FindEmployeesByExample(context.Background(), EmployeeProbe{
		FirstName: strings.Repeat("a", 101),
		Salary:    -1,
	})

	var validationErr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "FirstName must be at most 100 characters")
	assert.Contains(t, err.Error(), "Salary must be greater than or equal to 0")
	mockRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

// ==================== CUSTOM MATCHER SEARCH ====================

func TestFindEmployeesWithCustomMatcher_ConfiguresMatcher(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	var captured qbe.Example[domain.Employee]
	mockRepo.On("FindAll", ctx, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(qbe.Example[domain.Employee]) }).
		Return([]domain.Employee{john}, nil)

	got, err := uc.FindEmployeesWithCustomMatcher(ctx, SearchRequest{FirstName: "john", Department: "it"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	assert.Equal(t, domain.Employee{FirstName: "john", Department: "it"}, captured.Probe())
	m := captured.Matcher()
	assert.True(t, m.IsIgnoreCaseEnabled())
	assert.Equal(t, qbe.Containing, m.DefaultStringMatcher())
	assert.Equal(t, qbe.Ignore, m.NullHandler())

	mockRepo.AssertExpectations(t)
}

func TestFindEmployeesWithCustomMatcher_EmptyParameters(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindAll", ctx, mock.MatchedBy(func(ex qbe.Example[domain.Employee]) bool {
		return ex.Probe() == domain.Employee{}
	})).Return([]domain.Employee{john, jane}, nil)

	got, err := uc.FindEmployeesWithCustomMatcher(ctx, SearchRequest{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	mockRepo.AssertExpectations(t)
}

// ==================== FIND ONE ====================

func TestFindOneEmployeeByExample_Found(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	probe := EmployeeProbe{FirstName: "Jane", LastName: "Doe"}
	mockRepo.On("FindOne", ctx, mock.MatchedBy(func(ex qbe.Example[domain.Employee]) bool {
		return ex.Probe().FirstName == "Jane" && ex.Probe().LastName == "Doe"
	})).Return(&jane, nil)

	got, err := uc.FindOneEmployeeByExample(ctx, probe)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 85000, got.Salary, 0.001)
	mockRepo.AssertExpectations(t)
}

func TestFindOneEmployeeByExample_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindOne", ctx, mock.Anything).Return(nil, nil)

	got, err := uc.FindOneEmployeeByExample(ctx, EmployeeProbe{FirstName: "Nobody"})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNoMatchingEmployee)
	assert.EqualError(t, err, "no matching employee found")

	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFindOneEmployeeByExample_NonUnique(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindOne", ctx, mock.Anything).Return(nil, qbe.ErrNonUniqueResult)

	_, err := uc.FindOneEmployeeByExample(ctx, EmployeeProbe{LastName: "Smith"})
	assert.ErrorIs(t, err, qbe.ErrNonUniqueResult)

	var internal *pkgerrors.InternalError
	assert.ErrorAs(t, err, &internal)
}

// ==================== COUNT / EXISTS ====================

func TestCountEmployeesByExample(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Count", ctx, mock.MatchedBy(func(ex qbe.Example[domain.Employee]) bool {
		return ex.Probe().Department == "IT"
	})).Return(int64(5), nil)

	n, err := uc.CountEmployeesByExample(ctx, EmployeeProbe{Department: "IT"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	mockRepo.AssertExpectations(t)
}

func TestCountEmployeesByExample_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), errors.New("timeout"))

	_, err := uc.CountEmployeesByExample(ctx, EmployeeProbe{})
	assert.Error(t, err)
}

func TestExistsByExample(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{name: "match", exists: true},
		{name: "no match", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)
			ctx := context.Background()

			mockRepo.On("Exists", ctx, mock.Anything).Return(tt.exists, nil)

			ok, err := uc.ExistsByExample(ctx, EmployeeProbe{FirstName: "John", LastName: "Smith"})
			require.NoError(t, err)
			assert.Equal(t, tt.exists, ok)
			mockRepo.AssertExpectations(t)
		})
	}
}

// ==================== GET / CREATE / LIST ====================

func TestGetEmployee(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc, mockRepo := setupTestUsecase(t)
		ctx := context.Background()
		mockRepo.On("GetByID", ctx, int64(2)).Return(&jane, nil)

		got, err := uc.GetEmployee(ctx, GetEmployeeRequest{ID: 2})
		require.NoError(t, err)
		assert.Equal(t, "Doe", got.LastName)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		uc, mockRepo := setupTestUsecase(t)

		_, err := uc.GetEmployee(context.Background(), GetEmployeeRequest{ID: 0})
		var validationErr *pkgerrors.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		uc, mockRepo := setupTestUsecase(t)
		ctx := context.Background()
		mockRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

		_, err := uc.GetEmployee(ctx, GetEmployeeRequest{ID: 99})
		var notFound *pkgerrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestCreateEmployee_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateEmployeeRequest{FirstName: "Grace", LastName: "Hopper", Department: "Research", Position: "Scientist", Salary: 130000}
	mockRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.Employee) bool {
		return e.ID == 0 && e.FirstName == "Grace" && e.Salary == 130000
	})).Return(int64(15), nil)

	resp, err := uc.CreateEmployee(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(15), resp.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateEmployee_ValidationError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	_, err := uc.CreateEmployee(context.Background(), CreateEmployeeRequest{Salary: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FirstName is required")
	assert.Contains(t, err.Error(), "LastName is required")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListEmployees_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx, int64(2), int64(1)).Return([]domain.Employee{jane}, int64(14), nil)

	resp, err := uc.ListEmployees(ctx, ListEmployeesRequest{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Employees, 1)
	assert.Equal(t, "Jane", resp.Employees[0].FirstName)
	assert.Equal(t, int64(14), resp.Pagination.TotalPages)
	mockRepo.AssertExpectations(t)
}

func TestListEmployees_ClampsPaging(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx, int64(1), int64(100)).Return([]domain.Employee{}, int64(0), nil)

	resp, err := uc.ListEmployees(ctx, ListEmployeesRequest{Page: -3, Limit: 1000})
	require.NoError(t, err)
	assert.Empty(t, resp.Employees)
	assert.Equal(t, int64(1), resp.Pagination.Page)
	assert.Equal(t, int64(100), resp.Pagination.Limit)
	mockRepo.AssertExpectations(t)
}

// ==================== VALIDATION HELPER TESTS ====================

func TestFormatValidationError(t *testing.T) {
	validate := validator.New()

	type TestStruct struct {
		Name  string  `validate:"required,max=3"`
		Score float64 `validate:"gte=0"`
	}

	err := validate.Struct(&TestStruct{Score: -2})
	formatted := formatValidationError(err)

	assert.Error(t, formatted)
	assert.Contains(t, formatted.Error(), "validation failed")
	assert.Contains(t, formatted.Error(), "Name is required")
	assert.Contains(t, formatted.Error(), "Score must be greater than or equal to 0")
}

func TestFormatValidationError_NonValidationError(t *testing.T) {
	originalErr := errors.New("some other error")
	formatted := formatValidationError(originalErr)

	assert.Equal(t, originalErr, formatted)
}
