package services

import (
	"context"
	"errors"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/obs"
	"escort-route-service/internal/ports"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ErrNoEmployees is returned when neither the request nor the roster has riders.
var ErrNoEmployees = errors.New("no employees to plan")

type PlannerOptions struct {
	DefaultCapacity      int
	DefaultDetourPercent float64
	PairingCeiling       float64
	// LongDistanceKm flags riders whose straight-line distance from the office exceeds it.
	LongDistanceKm float64
	// HighDetourPercent flags dropped riders whose extra distance exceeds it.
	HighDetourPercent float64
}

// DefaultPlannerOptions mirrors the values used when no planner file is configured.
func DefaultPlannerOptions() PlannerOptions {
	return PlannerOptions{
		DefaultCapacity:      4,
		DefaultDetourPercent: 0.3,
		PairingCeiling:       DefaultPairingCeilingMeters,
		LongDistanceKm:       50,
		HighDetourPercent:    50,
	}
}

type PlanTripsRequest struct {
	// Employees in request order; OriginalIdx is assigned by the planner.
	// An empty list plans the stored roster.
	Employees []domain.Employee
	Office    domain.Coordinates
	// VehicleCapacity counts every seat, guard included. Zero selects the default.
	VehicleCapacity int
	// MaxDetourPercent as a fraction (0.3 = 30%). Nil selects the default.
	MaxDetourPercent *float64
	// EscortRequired false skips grouping and routes every rider on their own.
	EscortRequired bool
	TripType       string
}

type LongDistanceWarning struct {
	EmployeeID string
	Km         float64
}

// TripPlan is everything needed to submit a routing problem and to expand
// its solution back to riders.
type TripPlan struct {
	Employees []domain.Employee
	// Matrix is the shortest-path normalized employee-level matrix.
	Matrix *domain.TravelMatrix
	// Grouping is nil when the escort rule is bypassed.
	Grouping *Grouping
	// Stops lists the riders dropped at each problem location in order.
	// Stops[0] is the office and is empty.
	Stops    [][]domain.Employee
	Problem  *domain.RoutingProblem
	Warnings []LongDistanceWarning

	VehicleCapacity  int
	MaxDetourPercent float64
	EscortRequired   bool
	TripType         string
}

type TripPlanner struct {
	Matrices ports.MatrixProvider
	Solver   ports.RouteSolver
	// Roster is optional; it backs requests that carry no employees.
	Roster  ports.EmployeeRepository
	Options PlannerOptions
}

func NewTripPlanner(
	matrices ports.MatrixProvider,
	solver ports.RouteSolver,
	roster ports.EmployeeRepository,
	opts PlannerOptions,
) *TripPlanner {
	return &TripPlanner{Matrices: matrices, Solver: solver, Roster: roster, Options: opts}
}

// Plan builds the routing problem for a request without solving it.
func (p *TripPlanner) Plan(ctx context.Context, req PlanTripsRequest) (_ *TripPlan, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	if p.Matrices == nil {
		return nil, errors.New("plan trips: matrix provider is nil")
	}

	capacity := req.VehicleCapacity
	if capacity == 0 {
		capacity = p.Options.DefaultCapacity
	}
	detour := p.Options.DefaultDetourPercent
	if req.MaxDetourPercent != nil {
		detour = *req.MaxDetourPercent
	}
	params := GroupingParams{
		VehicleCapacity:  capacity,
		MaxDetourPercent: detour,
		PairingCeiling:   p.Options.PairingCeiling,
	}
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("plan trips: %w", err)
	}
	if !req.Office.Valid() {
		return nil, fmt.Errorf("plan trips: office coordinates out of range: %w", domain.ErrInvalidEmployee)
	}

	employees, err := p.employees(ctx, req.Employees)
	if err != nil {
		return nil, fmt.Errorf("plan trips: %w", err)
	}
	if err := domain.ValidateEmployees(employees); err != nil {
		return nil, fmt.Errorf("plan trips: %w", err)
	}

	locations := make([]domain.Coordinates, 0, len(employees)+1)
	locations = append(locations, req.Office)
	for _, e := range employees {
		locations = append(locations, e.Location)
	}

	raw, err := p.Matrices.GetMatrix(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("plan trips: get matrix for %d locations: %w", len(locations), err)
	}
	if err := raw.Validate(len(employees)); err != nil {
		return nil, fmt.Errorf("plan trips: %w", err)
	}
	matrix := raw.Normalize()

	plan := &TripPlan{
		Employees:        employees,
		Matrix:           matrix,
		Warnings:         longDistance(req.Office, employees, p.Options.LongDistanceKm),
		VehicleCapacity:  capacity,
		MaxDetourPercent: detour,
		EscortRequired:   req.EscortRequired,
		TripType:         req.TripType,
	}
	for _, w := range plan.Warnings {
		obs.Logger(ctx).Warn().
			Str("employee_id", w.EmployeeID).
			Float64("km", w.Km).
			Msg("employee lives beyond long-distance threshold")
	}

	if req.EscortRequired {
		err = p.planGrouped(plan, req.Office, params)
	} else {
		err = p.planUngrouped(plan)
	}
	if err != nil {
		return nil, fmt.Errorf("plan trips: %w", err)
	}

	plan.Problem.Vehicles = len(employees)
	plan.Problem.VehicleCapacity = capacity
	plan.Problem.TimeLimitSeconds = SolverTimeLimit(len(employees) + 1)

	return plan, nil
}

// Optimise plans the request, submits it to the solver and expands the answer.
func (p *TripPlanner) Optimise(ctx context.Context, req PlanTripsRequest) (_ *TripReport, err error) {
	defer obs.Time(ctx, "planner.Optimise")(&err)

	if p.Solver == nil {
		return nil, errors.New("optimise trips: route solver is nil")
	}

	plan, err := p.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(plan.Employees) == 0 {
		return BuildTripReport(plan, &domain.SolverSolution{}, p.Options.HighDetourPercent)
	}

	sol, err := p.Solver.Solve(ctx, plan.Problem)
	if err != nil {
		return nil, fmt.Errorf("optimise trips: solve %d locations: %w", plan.Problem.Locations(), err)
	}

	report, err := BuildTripReport(plan, sol, p.Options.HighDetourPercent)
	if err != nil {
		return nil, fmt.Errorf("optimise trips: %w", err)
	}
	for _, st := range report.HighDetour {
		obs.Logger(ctx).Warn().
			Str("employee_id", st.Employee.ID).
			Float64("extra_percent", st.ExtraPercentage).
			Float64("direct_km", st.DirectMeters/1000).
			Float64("trip_km", st.TripMeters/1000).
			Msg("high detour")
	}
	return report, nil
}

// employees returns the riders with OriginalIdx assigned in list order.
func (p *TripPlanner) employees(ctx context.Context, given []domain.Employee) ([]domain.Employee, error) {
	src := given
	if len(src) == 0 {
		if p.Roster == nil {
			return nil, ErrNoEmployees
		}
		stored, err := p.Roster.ListEmployees(ctx)
		if err != nil {
			return nil, fmt.Errorf("list roster: %w", err)
		}
		if len(stored) == 0 {
			return nil, ErrNoEmployees
		}
		src = stored
	}

	out := make([]domain.Employee, len(src))
	for i, e := range src {
		e.OriginalIdx = i + 1
		out[i] = e
	}
	return out, nil
}

func (p *TripPlanner) planGrouped(plan *TripPlan, office domain.Coordinates, params GroupingParams) error {
	grouping, err := GroupEmployees(plan.Employees, office, plan.Matrix, params)
	if err != nil {
		return err
	}
	for kind, n := range grouping.Counts() {
		obs.NodesBuilt.WithLabelValues(string(kind)).Add(float64(n))
	}

	graph, err := Condense(grouping.Nodes, plan.Matrix)
	if err != nil {
		return err
	}

	stops := make([][]domain.Employee, graph.Size())
	for i, n := range graph.Nodes {
		stops[i] = n.Members()
	}

	plan.Grouping = grouping
	plan.Stops = stops
	plan.Problem = &domain.RoutingProblem{
		CostMatrix:     graph.Distance,
		TimeMatrix:     graph.Time,
		Demands:        graph.Demands,
		TimeWindows:    BuildNodeTimeWindows(graph.Nodes, plan.Matrix, params.MaxDetourPercent),
		ServiceTimes:   graph.ServiceTimes,
		VehicleMatches: VehicleMatches(graph.Nodes, len(plan.Employees)),
	}
	return nil
}

// planUngrouped routes every rider as an independent task on the
// employee-level matrix.
func (p *TripPlanner) planUngrouped(plan *TripPlan) error {
	n := len(plan.Employees)
	windows, err := BuildTimeWindows(n, plan.Matrix.Time, plan.MaxDetourPercent)
	if err != nil {
		return err
	}

	stops := make([][]domain.Employee, n+1)
	demands := make([]int, n+1)
	service := make([]float64, n+1)
	for _, e := range plan.Employees {
		stops[e.OriginalIdx] = []domain.Employee{e}
		demands[e.OriginalIdx] = 1
		service[e.OriginalIdx] = e.Service()
	}

	plan.Stops = stops
	plan.Problem = &domain.RoutingProblem{
		CostMatrix:     trimSquare(plan.Matrix.Distance, n+1),
		TimeMatrix:     trimSquare(plan.Matrix.Time, n+1),
		Demands:        demands,
		TimeWindows:    windows,
		ServiceTimes:   service,
		VehicleMatches: map[int][]int{},
	}
	return nil
}

// SolverTimeLimit grows the solver budget with problem size.
func SolverTimeLimit(locations int) int {
	return int(math.Ceil(10 + float64(locations)/6))
}

// longDistance flags riders far from the office by great-circle distance.
func longDistance(office domain.Coordinates, employees []domain.Employee, thresholdKm float64) []LongDistanceWarning {
	if thresholdKm <= 0 {
		return nil
	}
	origin := orb.Point{office.Lon, office.Lat}

	var out []LongDistanceWarning
	for _, e := range employees {
		km := geo.Distance(origin, orb.Point{e.Location.Lon, e.Location.Lat}) / 1000
		if km > thresholdKm {
			out = append(out, LongDistanceWarning{EmployeeID: e.ID, Km: km})
		}
	}
	return out
}

// trimSquare returns the leading n x n block of m.
func trimSquare(m [][]float64, n int) [][]float64 {
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m[i][:n:n]
	}
	return out
}
