package repositories

import (
	"context"
	"database/sql"
	"errors"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/obs"
	"fmt"
)

// Postgres-backed implementation of the EmployeeRepository port.
type PostgresEmployeeRepository struct{ DB *sql.DB }

func NewPostgresEmployeeRepository(db *sql.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{DB: db}
}

// Return all employees stored in the database.
func (s *PostgresEmployeeRepository) ListEmployees(ctx context.Context) (_ []domain.Employee, err error) {
	defer obs.Time(ctx, "employees.List")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres employee repository: DB is nil")
	}

	query := `
	SELECT
		employee_id,
		gender,
		lat,
		lon,
		service_seconds
	FROM employees
	ORDER BY employee_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: query employees table: %w", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0, 64)
	for rows.Next() {
		var (
			e      domain.Employee
			gender string
		)
		if err := rows.Scan(&e.ID, &gender, &e.Location.Lat, &e.Location.Lon, &e.ServiceTime); err != nil {
			return nil, fmt.Errorf("list employees: scan row: %w", err)
		}
		e.Gender = domain.Gender(gender)
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list employees: row iteration: %w", err)
	}

	return employees, nil
}

// Insert or replace employees in one transaction.
func (s *PostgresEmployeeRepository) UpsertEmployees(ctx context.Context, employees []domain.Employee) error {
	if s.DB == nil {
		return errors.New("postgres employee repository: DB is nil")
	}
	if len(employees) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert employees: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO employees (employee_id, gender, lat, lon, service_seconds)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (employee_id) DO UPDATE
	SET gender = EXCLUDED.gender,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		service_seconds = EXCLUDED.service_seconds;
	`)
	if err != nil {
		return fmt.Errorf("upsert employees: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range employees {
		if _, err := stmt.ExecContext(ctx, e.ID, string(e.Gender), e.Location.Lat, e.Location.Lon, e.ServiceTime); err != nil {
			return fmt.Errorf("upsert employees: insert employee_id=%q: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert employees: commit tx: %w", err)
	}

	return nil
}
