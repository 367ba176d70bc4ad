package services

import (
	"escort-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCondense_ScenarioA(t *testing.T) {
	g := groupScenario(t, 4, 0.5)

	graph, err := Condense(g.Nodes, scenarioMatrix())
	require.NoError(t, err)
	require.Equal(t, 5, graph.Size())

	for i := 0; i < graph.Size(); i++ {
		require.Zero(t, graph.Distance[i][i])
		require.Zero(t, graph.Time[i][i])
	}

	// Group_M3 exits at M3 (8); Group_M1 enters at F1 (1).
	require.InDelta(t, 15000, graph.Distance[1][2], 1e-9)
	require.InDelta(t, 1500, graph.Time[1][2], 1e-9)
	// Office to Group_M3 entry (F5) and back from its exit (M3).
	require.InDelta(t, 1000, graph.Distance[0][1], 1e-9)
	require.InDelta(t, 5000, graph.Distance[1][0], 1e-9)
	// Group_M1 exits at M1 (6); Male_M2 is index 7.
	require.InDelta(t, dist(6, 7), graph.Distance[2][4], 1e-9)

	require.Equal(t, []int{0, 4, 2, 2, 1}, graph.Demands)
	require.Zero(t, graph.ServiceTimes[0])
	require.InDelta(t, g.Nodes[1].InternalTime()+120, graph.ServiceTimes[1], 1e-9)
	require.InDelta(t, 120+dist(1, 6)/10+120, graph.ServiceTimes[2], 1e-9)
	require.InDelta(t, 120, graph.ServiceTimes[3], 1e-9)
	require.InDelta(t, 120, graph.ServiceTimes[4], 1e-9)
}

func TestCondense_RequiresOfficeFirst(t *testing.T) {
	g := groupScenario(t, 4, 0.5)

	_, err := Condense(g.Nodes[1:], scenarioMatrix())
	require.Error(t, err)

	_, err = Condense(nil, scenarioMatrix())
	require.Error(t, err)
}

func TestCondense_RejectsIndexOutsideMatrix(t *testing.T) {
	g := groupScenario(t, 4, 0.5)

	_, err := Condense(g.Nodes, planeMatrix(scenarioPoints[:4]))
	require.ErrorIs(t, err, domain.ErrInvalidMatrix)
}

func TestVehicleMatches_RoundRobinOverPinnedNodes(t *testing.T) {
	g := groupScenario(t, 4, 0.5)

	require.Equal(t, map[int][]int{1: {0}, 2: {1}, 3: {2}}, VehicleMatches(g.Nodes, 8))
	require.Equal(t, map[int][]int{1: {0}, 2: {1}, 3: {0}}, VehicleMatches(g.Nodes, 2))
	require.Empty(t, VehicleMatches(g.Nodes, 0))
}

func TestVehicleMatches_LeavesOfficeAndMalesFree(t *testing.T) {
	g := groupScenario(t, 2, 0.5)
	matches := VehicleMatches(g.Nodes, 8)

	for i, n := range g.Nodes {
		_, pinned := matches[i]
		require.Equal(t, domain.IsPinned(n), pinned, n.ID())
	}
}
