package domain

import "errors"

// ErrInfeasible is returned by a solver that could not route every task.
var ErrInfeasible = errors.New("route solver: infeasible problem")

// RoutingProblem is the solver-facing view of a planning request. Location 0
// is the office; every other location is one task.
type RoutingProblem struct {
	CostMatrix   [][]float64
	TimeMatrix   [][]float64
	Demands      []int
	TimeWindows  []TimeWindow
	ServiceTimes []float64
	// VehicleMatches pins a location index to the vehicle slots allowed to serve it.
	VehicleMatches   map[int][]int
	Vehicles         int
	VehicleCapacity  int
	TimeLimitSeconds int
}

// Locations returns the number of locations, office included.
func (p *RoutingProblem) Locations() int { return len(p.CostMatrix) }

// SolverRoute is one vehicle's visiting order over problem locations. The
// office is not listed.
type SolverRoute struct {
	VehicleID string
	Locations []int
}

type SolverSolution struct {
	Routes []SolverRoute
	Cost   float64
}
