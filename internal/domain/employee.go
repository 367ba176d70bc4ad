package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultServiceTimeSeconds is the drop-off dwell applied when an employee has none set.
const DefaultServiceTimeSeconds = 120.0

var ErrInvalidEmployee = errors.New("invalid employee")

type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

// ParseGender accepts the long and short spellings used by callers.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return Male, nil
	case "f", "female":
		return Female, nil
	}
	return "", fmt.Errorf("parse gender %q: %w", s, ErrInvalidEmployee)
}

// Label returns the long spelling used in reports.
func (g Gender) Label() string {
	if g == Male {
		return "Male"
	}
	return "Female"
}

// Represents a rider travelling from the office to their home.
// OriginalIdx is the employee's row/column in the travel matrices; 0 is
// reserved for the office, so employees start at 1.
type Employee struct {
	ID          string
	Gender      Gender
	Location    Coordinates
	ServiceTime float64
	OriginalIdx int
}

// Service returns the dwell time at drop-off, defaulting when unset.
func (e Employee) Service() float64 {
	if e.ServiceTime <= 0 {
		return DefaultServiceTimeSeconds
	}
	return e.ServiceTime
}

func (e Employee) IsMale() bool { return e.Gender == Male }

// Validate checks the fields every downstream stage relies on.
func (e Employee) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("validate employee: empty id: %w", ErrInvalidEmployee)
	}
	if e.Gender != Male && e.Gender != Female {
		return fmt.Errorf("validate employee %q: unknown gender %q: %w", e.ID, e.Gender, ErrInvalidEmployee)
	}
	if e.OriginalIdx < 1 {
		return fmt.Errorf("validate employee %q: original index %d must be >= 1: %w", e.ID, e.OriginalIdx, ErrInvalidEmployee)
	}
	if !e.Location.Valid() {
		return fmt.Errorf("validate employee %q: coordinates out of range: %w", e.ID, ErrInvalidEmployee)
	}
	return nil
}

// ValidateEmployees checks each employee and that IDs and matrix indices are unique.
func ValidateEmployees(employees []Employee) error {
	ids := make(map[string]struct{}, len(employees))
	idxs := make(map[int]struct{}, len(employees))
	for _, e := range employees {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, ok := ids[e.ID]; ok {
			return fmt.Errorf("validate employees: duplicate id %q: %w", e.ID, ErrInvalidEmployee)
		}
		if _, ok := idxs[e.OriginalIdx]; ok {
			return fmt.Errorf("validate employees: duplicate original index %d: %w", e.OriginalIdx, ErrInvalidEmployee)
		}
		ids[e.ID] = struct{}{}
		idxs[e.OriginalIdx] = struct{}{}
	}
	return nil
}
