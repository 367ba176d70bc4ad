package solver

import (
	"escort-route-service/internal/domain"
	"fmt"
	"math"
	"sort"
)

type matrixData struct {
	Data map[string][][]float64 `json:"data"`
}

type fleetData struct {
	VehicleLocations   [][2]int `json:"vehicle_locations"`
	VehicleIDs         []string `json:"vehicle_ids"`
	VehicleTypes       []int    `json:"vehicle_types"`
	Capacities         [][]int  `json:"capacities"`
	VehicleTimeWindows [][2]int `json:"vehicle_time_windows"`
	DropReturnTrips    []bool   `json:"drop_return_trips"`
}

type orderVehicleMatch struct {
	OrderID    int   `json:"order_id"`
	VehicleIDs []int `json:"vehicle_ids"`
}

type taskData struct {
	TaskLocations     []int               `json:"task_locations"`
	Demand            [][]int             `json:"demand"`
	TaskTimeWindows   [][2]int            `json:"task_time_windows"`
	ServiceTimes      []int               `json:"service_times"`
	OrderVehicleMatch []orderVehicleMatch `json:"order_vehicle_match,omitempty"`
}

type solverConfig struct {
	TimeLimit  int            `json:"time_limit"`
	Objectives map[string]int `json:"objectives"`
}

// cuoptRequest is the JSON body accepted by the cuOpt server. Location 0 is
// the depot; tasks are locations 1..n-1 and task i is location i+1.
type cuoptRequest struct {
	CostMatrixData       matrixData   `json:"cost_matrix_data"`
	TravelTimeMatrixData matrixData   `json:"travel_time_matrix_data"`
	FleetData            fleetData    `json:"fleet_data"`
	TaskData             taskData     `json:"task_data"`
	SolverConfig         solverConfig `json:"solver_config"`
}

// vehicleID names fleet slot i.
func vehicleID(i int) string { return fmt.Sprintf("Veh_%d", i) }

func buildRequest(p *domain.RoutingProblem) (*cuoptRequest, error) {
	n := p.Locations()
	if n < 2 {
		return nil, fmt.Errorf("build solver request: need at least one task, got %d locations", n)
	}
	if len(p.TimeMatrix) != n || len(p.Demands) != n || len(p.TimeWindows) != n || len(p.ServiceTimes) != n {
		return nil, fmt.Errorf("build solver request: per-location slices disagree with %d locations: %w", n, domain.ErrInvalidMatrix)
	}
	if p.Vehicles < 1 || p.VehicleCapacity < 1 {
		return nil, fmt.Errorf("build solver request: fleet of %d vehicles with capacity %d", p.Vehicles, p.VehicleCapacity)
	}

	fleet := fleetData{
		VehicleLocations:   make([][2]int, p.Vehicles),
		VehicleIDs:         make([]string, p.Vehicles),
		VehicleTypes:       make([]int, p.Vehicles),
		Capacities:         [][]int{make([]int, p.Vehicles)},
		VehicleTimeWindows: make([][2]int, p.Vehicles),
		DropReturnTrips:    make([]bool, p.Vehicles),
	}
	for v := 0; v < p.Vehicles; v++ {
		fleet.VehicleIDs[v] = vehicleID(v)
		fleet.Capacities[0][v] = p.VehicleCapacity
		fleet.VehicleTimeWindows[v] = domain.OfficeWindow().Pair()
	}

	tasks := taskData{
		TaskLocations:   make([]int, 0, n-1),
		Demand:          [][]int{make([]int, 0, n-1)},
		TaskTimeWindows: make([][2]int, 0, n-1),
		ServiceTimes:    make([]int, 0, n-1),
	}
	for loc := 1; loc < n; loc++ {
		tasks.TaskLocations = append(tasks.TaskLocations, loc)
		tasks.Demand[0] = append(tasks.Demand[0], p.Demands[loc])
		tasks.TaskTimeWindows = append(tasks.TaskTimeWindows, p.TimeWindows[loc].Pair())
		tasks.ServiceTimes = append(tasks.ServiceTimes, int(math.Floor(p.ServiceTimes[loc])))
	}

	locs := make([]int, 0, len(p.VehicleMatches))
	for loc := range p.VehicleMatches {
		locs = append(locs, loc)
	}
	sort.Ints(locs)
	for _, loc := range locs {
		if loc < 1 || loc >= n {
			return nil, fmt.Errorf("build solver request: vehicle match for unknown location %d", loc)
		}
		tasks.OrderVehicleMatch = append(tasks.OrderVehicleMatch, orderVehicleMatch{
			OrderID:    loc - 1,
			VehicleIDs: p.VehicleMatches[loc],
		})
	}

	return &cuoptRequest{
		CostMatrixData:       matrixData{Data: map[string][][]float64{"0": p.CostMatrix}},
		TravelTimeMatrixData: matrixData{Data: map[string][][]float64{"0": p.TimeMatrix}},
		FleetData:            fleet,
		TaskData:             tasks,
		SolverConfig: solverConfig{
			TimeLimit:  p.TimeLimitSeconds,
			Objectives: map[string]int{"cost": 1},
		},
	}, nil
}

type vehicleRoute struct {
	Route []int `json:"route"`
}

type solverResponse struct {
	Status       int                     `json:"status"`
	SolutionCost float64                 `json:"solution_cost"`
	VehicleData  map[string]vehicleRoute `json:"vehicle_data"`
}

// cuoptResult is the synchronous answer or the solution fetched after polling.
type cuoptResult struct {
	ReqID    string `json:"reqId"`
	Response *struct {
		SolverResponse           *solverResponse `json:"solver_response"`
		SolverInfeasibleResponse *solverResponse `json:"solver_infeasible_response"`
	} `json:"response"`
}

func (r *cuoptResult) solution() (*domain.SolverSolution, error) {
	if r.Response == nil {
		return nil, fmt.Errorf("solver result has no response")
	}
	sr := r.Response.SolverResponse
	if sr == nil {
		return nil, fmt.Errorf("solver returned only an infeasible response: %w", domain.ErrInfeasible)
	}
	if sr.Status != 0 {
		return nil, fmt.Errorf("solver status %d: %w", sr.Status, domain.ErrInfeasible)
	}

	ids := make([]string, 0, len(sr.VehicleData))
	for id := range sr.VehicleData {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := &domain.SolverSolution{Cost: sr.SolutionCost}
	for _, id := range ids {
		stops := make([]int, 0, len(sr.VehicleData[id].Route))
		for _, loc := range sr.VehicleData[id].Route {
			if loc != domain.OfficeIdx {
				stops = append(stops, loc)
			}
		}
		if len(stops) == 0 {
			continue
		}
		out.Routes = append(out.Routes, domain.SolverRoute{VehicleID: id, Locations: stops})
	}
	return out, nil
}
