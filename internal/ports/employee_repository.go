package ports

import (
	"context"
	"escort-route-service/internal/domain"
)

// Port: a boundary for retrieving the stored employee roster.
type EmployeeRepository interface {
	// Retrieve all employees, ordered by id.
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	// Insert or replace employees by id.
	UpsertEmployees(ctx context.Context, employees []domain.Employee) error
}
