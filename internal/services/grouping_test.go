package services

import (
	"escort-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func groupScenario(t *testing.T, capacity int, detour float64) *Grouping {
	t.Helper()
	g, err := GroupEmployees(scenarioEmployees(), domain.Coordinates{}, scenarioMatrix(), GroupingParams{
		VehicleCapacity:  capacity,
		MaxDetourPercent: detour,
	})
	require.NoError(t, err)
	return g
}

func TestGroupEmployees_ScenarioA(t *testing.T) {
	g := groupScenario(t, 4, 0.5)

	require.Equal(t,
		[]string{"OFFICE", "Group_M3", "Group_M1", "GuardedGroup_F2", "Male_M2"},
		nodeIDs(g.Nodes),
	)
	require.Equal(t, []string{"F5", "F4", "F3", "M3"}, memberIDs(g.Nodes[1]))
	require.Equal(t, []string{"F1", "M1"}, memberIDs(g.Nodes[2]))
	require.Equal(t, []string{"F2"}, memberIDs(g.Nodes[3]))

	demands := make([]int, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		demands = append(demands, n.Demand())
	}
	require.Equal(t, []int{0, 4, 2, 2, 1}, demands)

	// F5 -> F4 -> F3 -> M3 with 120s dwell at each of the first three.
	wantInternal := 3*120 + (dist(5, 4)+dist(4, 3)+dist(3, 8))/10
	require.InDelta(t, wantInternal, g.Nodes[1].InternalTime(), 1e-9)
	require.InDelta(t, wantInternal+120, g.Nodes[1].ServiceTime(), 1e-9)
	require.Equal(t, 5, g.Nodes[1].Entry())
	require.Equal(t, 8, g.Nodes[1].Exit())
}

func TestGroupEmployees_ScenarioB_SmallVehicles(t *testing.T) {
	g := groupScenario(t, 2, 0.5)

	require.Equal(t,
		[]string{"OFFICE", "Group_M2", "Group_M3", "Group_M1", "GuardedGroup_F2", "GuardedGroup_F4"},
		nodeIDs(g.Nodes),
	)
	require.Equal(t, []string{"F5", "M2"}, memberIDs(g.Nodes[1]))
	require.Equal(t, []string{"F3", "M3"}, memberIDs(g.Nodes[2]))
	for _, n := range g.Nodes[1:] {
		require.LessOrEqual(t, n.Demand(), 2, n.ID())
	}
}

func TestGroupEmployees_ScenarioC_TightDetourSplitsGroups(t *testing.T) {
	loose := groupScenario(t, 4, 0.5)
	tight := groupScenario(t, 4, 0.1)

	require.Equal(t,
		[]string{"OFFICE", "Group_M2", "Group_M3", "Group_M1", "GuardedGroup_F2", "GuardedGroup_F4"},
		nodeIDs(tight.Nodes),
	)
	require.Equal(t, 1, loose.Counts()[domain.KindGuardedGroup])
	require.Equal(t, 2, tight.Counts()[domain.KindGuardedGroup])
}

func TestGroupEmployees_NoEmployees(t *testing.T) {
	g, err := GroupEmployees(nil, domain.Coordinates{Lat: 12.9, Lon: 77.6}, &domain.TravelMatrix{
		Distance: [][]float64{{0}},
		Time:     [][]float64{{0}},
	}, GroupingParams{VehicleCapacity: 4, MaxDetourPercent: 0.3})
	require.NoError(t, err)
	require.Equal(t, []string{"OFFICE"}, nodeIDs(g.Nodes))
	require.Empty(t, g.ByIndex)
}

func TestGroupEmployees_OnlyMales(t *testing.T) {
	emps := pick(scenarioEmployees(), "M1", "M2", "M3")
	g, err := GroupEmployees(emps, domain.Coordinates{}, scenarioMatrix(), GroupingParams{VehicleCapacity: 4, MaxDetourPercent: 0.3})
	require.NoError(t, err)
	require.Equal(t, []string{"OFFICE", "Male_M1", "Male_M2", "Male_M3"}, nodeIDs(g.Nodes))
}

func TestGroupEmployees_PairingCeilingExcludesFarEscorts(t *testing.T) {
	g, err := GroupEmployees(scenarioEmployees(), domain.Coordinates{}, scenarioMatrix(), GroupingParams{
		VehicleCapacity:  4,
		MaxDetourPercent: 0.5,
		PairingCeiling:   100,
	})
	require.NoError(t, err)

	require.Zero(t, g.Counts()[domain.KindGroup])
	require.Equal(t, 3, g.Counts()[domain.KindMale])
}

func TestGroupEmployees_InvariantsAcrossParameters(t *testing.T) {
	emps := scenarioEmployees()
	matrix := scenarioMatrix()

	for _, capacity := range []int{2, 3, 4, 6} {
		for _, detour := range []float64{0, 0.1, 0.3, 0.5, 1} {
			g, err := GroupEmployees(emps, domain.Coordinates{}, matrix, GroupingParams{
				VehicleCapacity:  capacity,
				MaxDetourPercent: detour,
			})
			require.NoError(t, err)

			require.Equal(t, domain.KindOffice, g.Nodes[0].Kind())

			seen := map[int]int{}
			v := NewDetourValidator(matrix, detour)
			for _, n := range g.Nodes[1:] {
				require.LessOrEqual(t, n.Demand(), capacity, "cap=%d p=%v node=%s", capacity, detour, n.ID())
				require.True(t, v.ValidOrdered(n.Members()), "cap=%d p=%v node=%s", capacity, detour, n.ID())
				for _, m := range n.Members() {
					seen[m.OriginalIdx]++
					require.Equal(t, n.ID(), g.ByIndex[m.OriginalIdx].ID())
				}
				if n.Kind() == domain.KindGroup {
					members := n.Members()
					require.True(t, members[len(members)-1].IsMale())
				}
			}

			require.Len(t, seen, len(emps))
			for idx, c := range seen {
				require.Equal(t, 1, c, "employee %d placed %d times", idx, c)
			}
		}
	}
}

func TestGroupEmployees_Deterministic(t *testing.T) {
	first := groupScenario(t, 4, 0.3)
	for i := 0; i < 5; i++ {
		again := groupScenario(t, 4, 0.3)
		require.Equal(t, nodeIDs(first.Nodes), nodeIDs(again.Nodes))
		for j := range first.Nodes {
			require.Equal(t, memberIDs(first.Nodes[j]), memberIDs(again.Nodes[j]))
		}
	}
}

func TestGroupEmployees_RejectsInvalidInput(t *testing.T) {
	emps := scenarioEmployees()
	matrix := scenarioMatrix()

	_, err := GroupEmployees(emps, domain.Coordinates{}, matrix, GroupingParams{VehicleCapacity: 1, MaxDetourPercent: 0.3})
	require.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = GroupEmployees(emps, domain.Coordinates{}, matrix, GroupingParams{VehicleCapacity: 4, MaxDetourPercent: -0.1})
	require.ErrorIs(t, err, ErrInvalidDetour)

	small := planeMatrix(scenarioPoints[:5])
	_, err = GroupEmployees(emps, domain.Coordinates{}, small, GroupingParams{VehicleCapacity: 4, MaxDetourPercent: 0.3})
	require.ErrorIs(t, err, domain.ErrInvalidMatrix)

	dup := append(scenarioEmployees(), domain.Employee{ID: "F1", Gender: domain.Female, OriginalIdx: 8})
	_, err = GroupEmployees(dup, domain.Coordinates{}, matrix, GroupingParams{VehicleCapacity: 4, MaxDetourPercent: 0.3})
	require.ErrorIs(t, err, domain.ErrInvalidEmployee)
}
