package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"employee-qbe-service/internal/domain/employee"
	"employee-qbe-service/internal/metrics"
	"employee-qbe-service/pkg/qbe"
)

func setupRepo(t *testing.T) *EmployeeRepoPG {
	return NewEmployeeRepoPG(setupTestDB(t), nil, zaptest.NewLogger(t))
}

func names(list []employee.Employee) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.FirstName
	}
	return out
}

func TestEmployeeRepoPG_FindAll_ITDevelopers(t *testing.T) {
	repo := setupRepo(t)

	developers, err := repo.FindAll(context.Background(), qbe.Of(employee.Employee{
		Department: "IT",
		Position:   "Developer",
	}))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Jane", "Mike"}, names(developers))
	for _, d := range developers {
		assert.Equal(t, "IT", d.Department)
		assert.Equal(t, "Developer", d.Position)
	}
}

func TestEmployeeRepoPG_FindAll_Smiths(t *testing.T) {
	repo := setupRepo(t)

	smiths, err := repo.FindAll(context.Background(), qbe.Of(employee.Employee{LastName: "Smith"}))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"John", "Thomas", "Anna", "Robert"}, names(smiths))
}

func TestEmployeeRepoPG_FindAll_JohnVariations(t *testing.T) {
	repo := setupRepo(t)
	m := qbe.Matching().WithIgnoreCase().WithStringMatcher(qbe.Containing)

	johns, err := repo.FindAll(context.Background(), qbe.OfMatcher(employee.Employee{FirstName: "john"}, m))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"John", "Johnny"}, names(johns))
	for _, j := range johns {
		assert.Contains(t, strings.ToLower(j.FirstName), "john")
	}
}

func TestEmployeeRepoPG_FindAll_Managers(t *testing.T) {
	repo := setupRepo(t)

	managers, err := repo.FindAll(context.Background(), qbe.Of(employee.Employee{Position: "Manager"}))
	require.NoError(t, err)

	departments := make([]string, len(managers))
	for i, m := range managers {
		departments[i] = m.Department
	}
	assert.ElementsMatch(t, []string{"HR", "Marketing", "Sales", "Operations"}, departments)
}

func TestEmployeeRepoPG_FindAll_EngineersWithComplexMatcher(t *testing.T) {
	repo := setupRepo(t)
	m := qbe.Matching().
		WithIgnoreCase().
		WithStringMatcher(qbe.Containing).
		WithIgnoreNullValues()

	engineers, err := repo.FindAll(context.Background(), qbe.OfMatcher(employee.Employee{
		Department: "Engineering",
		Position:   "Engineer",
	}, m))
	require.NoError(t, err)

	assert.Len(t, engineers, 4)
	for _, e := range engineers {
		assert.Equal(t, "Engineering", e.Department)
		assert.Contains(t, e.Position, "Engineer")
	}
}

func TestEmployeeRepoPG_FindAll_NoMatches(t *testing.T) {
	repo := setupRepo(t)

	results, err := repo.FindAll(context.Background(), qbe.Of(employee.Employee{
		Department: "Non-Existent",
		Position:   "Imaginary Position",
	}))
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestEmployeeRepoPG_FindOneAndExists_ExactMatch(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	ex := qbe.Of(employee.Employee{
		FirstName:  "Jane",
		LastName:   "Doe",
		Department: "IT",
		Position:   "Developer",
	})

	exists, err := repo.Exists(ctx, ex)
	require.NoError(t, err)
	assert.True(t, exists)

	e, err := repo.FindOne(ctx, ex)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Jane", e.FirstName)
	assert.Equal(t, "Doe", e.LastName)
	assert.Equal(t, "IT", e.Department)
	assert.Equal(t, "Developer", e.Position)
	assert.InDelta(t, 85000, e.Salary, 0.001)
}

func TestEmployeeRepoPG_FindOne_NoneAndMany(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	e, err := repo.FindOne(ctx, qbe.Of(employee.Employee{FirstName: "Nobody"}))
	require.NoError(t, err)
	assert.Nil(t, e)

	_, err = repo.FindOne(ctx, qbe.Of(employee.Employee{LastName: "Smith"}))
	assert.ErrorIs(t, err, qbe.ErrNonUniqueResult)
}

func TestEmployeeRepoPG_FindAll_NullValuesIgnored(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	itEmployees, err := repo.FindAll(ctx, qbe.OfMatcher(employee.Employee{Department: "IT"}, qbe.Matching().WithIgnoreNullValues()))
	require.NoError(t, err)
	require.NotEmpty(t, itEmployees)

	all, err := repo.FindAll(ctx, qbe.Of(employee.Employee{}))
	require.NoError(t, err)

	expected := 0
	for _, e := range all {
		if e.Department == "IT" {
			expected++
		}
	}
	assert.Len(t, itEmployees, expected)
}

func TestEmployeeRepoPG_FindAll_CustomPropertyMatcher(t *testing.T) {
	repo := setupRepo(t)
	m := qbe.Matching().
		WithIgnoreCase().
		WithMatcher("firstName", func(g qbe.GenericPropertyMatcher) qbe.GenericPropertyMatcher { return g.Exact() }).
		WithMatcher("department", func(g qbe.GenericPropertyMatcher) qbe.GenericPropertyMatcher { return g.Exact() }).
		WithIgnoreNullValues()

	matches, err := repo.FindAll(context.Background(), qbe.OfMatcher(employee.Employee{
		FirstName:  "JOHN",
		Department: "it",
	}, m))
	require.NoError(t, err)

	require.NotEmpty(t, matches)
	for _, e := range matches {
		assert.True(t, strings.EqualFold(e.FirstName, "JOHN"))
		assert.True(t, strings.EqualFold(e.Department, "it"))
	}
}

func TestEmployeeRepoPG_Count(t *testing.T) {
	repo := setupRepo(t)

	n, err := repo.Count(context.Background(), qbe.Of(employee.Employee{Department: "IT"}))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = repo.Count(context.Background(), qbe.Of(employee.Employee{Department: "Legal"}))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestEmployeeRepoPG_CreateAndGetByID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &employee.Employee{
		ID:         999, // ignored, the database assigns the key
		FirstName:  "Grace",
		LastName:   "Hopper",
		Department: "Research",
		Position:   "Scientist",
		Salary:     130000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(SeedEmployees)+1), id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Hopper", got.LastName)

	missing, err := repo.GetByID(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.Create(ctx, nil)
	assert.Error(t, err)
}

func TestEmployeeRepoPG_List(t *testing.T) {
	repo := setupRepo(t)

	page, total, err := repo.List(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(len(SeedEmployees)), total)
	require.Len(t, page, 5)
	assert.Equal(t, "Anna", page[0].FirstName)

	last, _, err := repo.List(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Len(t, last, 4)
}

func TestEmployeeRepoPG_RecordsQueryDuration(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	repo := NewEmployeeRepoPG(setupTestDB(t), m, zaptest.NewLogger(t))

	_, err := repo.Count(context.Background(), qbe.Of(employee.Employee{}))
	require.NoError(t, err)
	_, err = repo.Exists(context.Background(), qbe.Of(employee.Employee{}))
	require.NoError(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m.DBQueryDuration))
}
