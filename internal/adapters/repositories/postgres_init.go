package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"escort-route-service/internal/domain"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createEmployeesQuery := `
	CREATE TABLE IF NOT EXISTS employees (
		employee_id TEXT PRIMARY KEY,
		gender CHAR(1) NOT NULL CHECK (gender IN ('M', 'F')),
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		service_seconds DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createMatrixCacheQuery := `
	CREATE TABLE IF NOT EXISTS matrix_cache (
        cache_key TEXT PRIMARY KEY,
        payload JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_matrix_cache_created_at
    ON matrix_cache(created_at);
	`

	statements := []string{
		createEmployeesQuery,
		createMatrixCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// EmployeeSeed is the JSON shape of a roster file; it matches the request body.
type EmployeeSeed struct {
	ID          string  `json:"id"`
	Gender      string  `json:"gender"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ServiceTime float64 `json:"service_time"`
}

// LoadSeedFile parses a roster file into employees.
func LoadSeedFile(jsonPath string) ([]domain.Employee, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var data []EmployeeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}

	out := make([]domain.Employee, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("load seed: item at index %d: id cannot be empty", i+1)
		}
		g, err := domain.ParseGender(item.Gender)
		if err != nil {
			return nil, fmt.Errorf("load seed: item %q: %w", id, err)
		}
		out = append(out, domain.Employee{
			ID:          id,
			Gender:      g,
			Location:    domain.Coordinates{Lon: item.Lon, Lat: item.Lat},
			ServiceTime: item.ServiceTime,
		})
	}
	return out, nil
}

// Populate the employees table from a JSON roster file.
func SeedFromJSON(ctx context.Context, repo *PostgresEmployeeRepository, jsonPath string) error {
	employees, err := LoadSeedFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}
	if err := repo.UpsertEmployees(ctx, employees); err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}
	return nil
}
