package employee

// Employee represents an employee record.
// A zero-valued field means "not set" when the Employee is used as a search probe.
type Employee struct {
	ID         int64   // ID is the unique identifier for the employee
	FirstName  string  // FirstName is the given name
	LastName   string  // LastName is the family name
	Department string  // Department the employee belongs to
	Position   string  // Position is the job title
	Salary     float64 // Salary is the yearly gross salary
}
