package domain

import (
	"errors"
	"fmt"
	"math"
)

// OfficeIdx is the matrix row/column of the office.
const OfficeIdx = 0

var ErrInvalidMatrix = errors.New("invalid travel matrix")

// TravelMatrix holds pairwise distance (meters) and travel time (seconds)
// indexed by Employee.OriginalIdx. Entries are directed: [i][j] is i -> j.
type TravelMatrix struct {
	Distance [][]float64
	Time     [][]float64
}

// Size returns the number of locations (office included).
func (m *TravelMatrix) Size() int {
	if m == nil {
		return 0
	}
	return len(m.Distance)
}

// Validate checks that both matrices are square, equally sized, cover at
// least employees+1 locations and hold only finite non-negative values.
// A failure is a fatal configuration error and must not be papered over.
func (m *TravelMatrix) Validate(employees int) error {
	if m == nil {
		return fmt.Errorf("validate matrix: matrix is nil: %w", ErrInvalidMatrix)
	}

	n := len(m.Distance)
	if len(m.Time) != n {
		return fmt.Errorf(
			"validate matrix: distance has %d rows, time has %d: %w",
			n, len(m.Time), ErrInvalidMatrix,
		)
	}
	if n < employees+1 {
		return fmt.Errorf(
			"validate matrix: size %d is smaller than %d employees + office: %w",
			n, employees, ErrInvalidMatrix,
		)
	}

	for i := 0; i < n; i++ {
		if len(m.Distance[i]) != n || len(m.Time[i]) != n {
			return fmt.Errorf("validate matrix: row %d is not %d wide: %w", i, n, ErrInvalidMatrix)
		}
		for j := 0; j < n; j++ {
			d, t := m.Distance[i][j], m.Time[i][j]
			if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				return fmt.Errorf("validate matrix: distance[%d][%d]=%v: %w", i, j, d, ErrInvalidMatrix)
			}
			if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
				return fmt.Errorf("validate matrix: time[%d][%d]=%v: %w", i, j, t, ErrInvalidMatrix)
			}
		}
	}

	return nil
}

func (m *TravelMatrix) DistanceAt(from, to int) float64 { return m.Distance[from][to] }

func (m *TravelMatrix) TimeAt(from, to int) float64 { return m.Time[from][to] }

// Normalize returns a copy where every entry is the shortest path through any
// sequence of intermediate locations (Floyd-Warshall), applied to both
// matrices independently. Provider matrices can violate the triangle
// inequality; the grouping engine assumes they do not.
func (m *TravelMatrix) Normalize() *TravelMatrix {
	return &TravelMatrix{
		Distance: shortestPaths(m.Distance),
		Time:     shortestPaths(m.Time),
	}
}

func shortestPaths(src [][]float64) [][]float64 {
	n := len(src)
	dist := make([][]float64, n)
	for i := range src {
		dist[i] = append([]float64(nil), src[i]...)
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			dik := dist[i][k]
			for j := 0; j < n; j++ {
				if via := dik + dist[k][j]; via < dist[i][j] {
					dist[i][j] = via
				}
			}
		}
	}
	return dist
}

// NewSquare allocates an n x n zero matrix.
func NewSquare(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	return out
}
