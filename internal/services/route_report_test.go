package services

import (
	"context"
	"escort-route-service/internal/adapters/distance"
	"escort-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func scenarioPlan(t *testing.T) *TripPlan {
	t.Helper()
	planner := NewTripPlanner(distance.NewMockMatrixProvider(scenarioMatrix()), nil, nil, DefaultPlannerOptions())
	plan, err := planner.Plan(context.Background(), scenarioRequest(0.5, true))
	require.NoError(t, err)
	return plan
}

func TestBuildTripReport_ExpandsNodesToRiders(t *testing.T) {
	plan := scenarioPlan(t)

	report, err := BuildTripReport(plan, &domain.SolverSolution{Routes: []domain.SolverRoute{
		{VehicleID: "Veh_0", Locations: []int{1}},
		{VehicleID: "Veh_1", Locations: []int{2, 4}},
		{VehicleID: "Veh_2", Locations: []int{0, 3, 0}},
	}}, 50)
	require.NoError(t, err)
	require.Len(t, report.Routes, 3)

	first := report.Routes[0]
	require.Equal(t, "Veh_0", first.VehicleID)
	require.False(t, first.MaleLed)
	require.True(t, first.RequiresEscort())
	require.Len(t, first.Stops, 4)

	f4 := first.Stops[1]
	require.Equal(t, "F4", f4.Employee.ID)
	require.Equal(t, 2, f4.Sequence)
	require.InDelta(t, 4600, f4.DirectMeters, 1e-9)
	require.InDelta(t, dist(0, 5)+dist(5, 4), f4.TripMeters, 1e-9)
	require.InDelta(t, (f4.TripMeters-4600)/4600*100, f4.ExtraPercentage, 1e-9)
	require.InDelta(t, dist(0, 5)+dist(5, 4)+dist(4, 3)+dist(3, 8), first.DistanceMeters, 1e-9)

	// Male_M2 rides after Group_M1 and goes far past their own home.
	second := report.Routes[1]
	require.Equal(t, []string{"F1", "M1", "M2"}, []string{
		second.Stops[0].Employee.ID, second.Stops[1].Employee.ID, second.Stops[2].Employee.ID,
	})
	require.Len(t, report.HighDetour, 1)
	require.Equal(t, "M2", report.HighDetour[0].Employee.ID)

	require.Equal(t, "Veh_2", report.Routes[2].VehicleID)
	require.Equal(t, 8, report.Summary.TotalEmployees)
}

func TestBuildTripReport_MaleLedRoute(t *testing.T) {
	plan := scenarioPlan(t)

	report, err := BuildTripReport(plan, &domain.SolverSolution{Routes: []domain.SolverRoute{
		{VehicleID: "Veh_0", Locations: []int{4, 1}},
		{VehicleID: "Veh_1", Locations: []int{2}},
		{VehicleID: "Veh_2", Locations: []int{3}},
		{VehicleID: "Veh_3", Locations: nil},
	}}, 50)
	require.NoError(t, err)

	require.Len(t, report.Routes, 3)
	require.True(t, report.Routes[0].MaleLed)
	require.Equal(t, 1, report.Summary.MaleLed)
	require.Equal(t, 2, report.Summary.EscortVehicles)
}

func TestBuildTripReport_RejectsForeignSolutions(t *testing.T) {
	plan := scenarioPlan(t)

	_, err := BuildTripReport(plan, &domain.SolverSolution{Routes: []domain.SolverRoute{
		{VehicleID: "Veh_0", Locations: []int{1, 2, 3}},
	}}, 50)
	require.ErrorIs(t, err, domain.ErrInfeasible)

	_, err = BuildTripReport(plan, &domain.SolverSolution{Routes: []domain.SolverRoute{
		{VehicleID: "Veh_0", Locations: []int{1, 2}},
		{VehicleID: "Veh_1", Locations: []int{2, 3, 4}},
	}}, 50)
	require.Error(t, err)

	_, err = BuildTripReport(plan, &domain.SolverSolution{Routes: []domain.SolverRoute{
		{VehicleID: "Veh_0", Locations: []int{1, 2, 3, 4, 9}},
	}}, 50)
	require.Error(t, err)
}

func TestBuildTripReport_EmptyPlan(t *testing.T) {
	report, err := BuildTripReport(&TripPlan{
		Stops:  [][]domain.Employee{nil},
		Matrix: &domain.TravelMatrix{Distance: [][]float64{{0}}, Time: [][]float64{{0}}},
	}, &domain.SolverSolution{}, 50)
	require.NoError(t, err)
	require.Empty(t, report.Routes)
	require.Zero(t, report.Summary.TotalVehicles)
}
