package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SeedEmployees is the demo dataset. It mirrors migrations/00002_seed_employees.sql.
var SeedEmployees = []EmployeeSchema{
	{FirstName: "John", LastName: "Smith", Department: "IT", Position: "Software Engineer", Salary: 95000},
	{FirstName: "Jane", LastName: "Doe", Department: "IT", Position: "Developer", Salary: 85000},
	{FirstName: "Mike", LastName: "Johnson", Department: "IT", Position: "Developer", Salary: 82000},
	{FirstName: "Kevin", LastName: "Lee", Department: "IT", Position: "System Administrator", Salary: 75000},
	{FirstName: "Thomas", LastName: "Smith", Department: "Engineering", Position: "Senior Engineer", Salary: 120000},
	{FirstName: "Anna", LastName: "Smith", Department: "Engineering", Position: "DevOps Engineer", Salary: 105000},
	{FirstName: "Johnny", LastName: "Walker", Department: "Engineering", Position: "QA Engineer", Salary: 78000},
	{FirstName: "Chris", LastName: "Evans", Department: "Engineering", Position: "Platform Engineer", Salary: 110000},
	{FirstName: "Robert", LastName: "Smith", Department: "Finance", Position: "Accountant", Salary: 70000},
	{FirstName: "Emily", LastName: "Brown", Department: "HR", Position: "Manager", Salary: 90000},
	{FirstName: "Sarah", LastName: "Davis", Department: "Marketing", Position: "Manager", Salary: 92000},
	{FirstName: "David", LastName: "Wilson", Department: "Sales", Position: "Manager", Salary: 88000},
	{FirstName: "Laura", LastName: "Martinez", Department: "Operations", Position: "Manager", Salary: 91000},
	{FirstName: "Olivia", LastName: "Taylor", Department: "Sales", Position: "Sales Representative", Salary: 60000},
}

// Seed inserts SeedEmployees when the employees table is empty and returns
// the number of rows written.
func Seed(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&EmployeeSchema{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	rows := make([]EmployeeSchema, len(SeedEmployees))
	copy(rows, SeedEmployees)
	res := db.WithContext(ctx).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed employees: %w", res.Error)
	}
	return res.RowsAffected, nil
}
