package services

import (
	"escort-route-service/internal/domain"
	"math"
)

// Plane layout in meters. Travel is Euclidean at 10 m/s.
//
//	index: 0=office 1=F1 2=F2 3=F3 4=F4 5=F5 6=M1 7=M2 8=M3
var scenarioPoints = [][2]float64{
	{0, 0},
	{10000, 0},
	{0, 9000},
	{-5000, 300},
	{-4600, 0},
	{0, -1000},
	{10000, 500},
	{0, -1200},
	{-5000, 0},
}

func planeMatrix(points [][2]float64) *domain.TravelMatrix {
	n := len(points)
	m := &domain.TravelMatrix{Distance: domain.NewSquare(n), Time: domain.NewSquare(n)}
	for i := range points {
		for j := range points {
			d := math.Hypot(points[i][0]-points[j][0], points[i][1]-points[j][1])
			m.Distance[i][j] = d
			m.Time[i][j] = d / 10
		}
	}
	return m
}

func scenarioMatrix() *domain.TravelMatrix { return planeMatrix(scenarioPoints) }

// scenarioEmployees returns F1..F5 then M1..M3 with matching matrix indices.
func scenarioEmployees() []domain.Employee {
	out := make([]domain.Employee, 0, 8)
	for i := 1; i <= 5; i++ {
		out = append(out, domain.Employee{ID: "F" + string(rune('0'+i)), Gender: domain.Female, OriginalIdx: i})
	}
	for i := 1; i <= 3; i++ {
		out = append(out, domain.Employee{ID: "M" + string(rune('0'+i)), Gender: domain.Male, OriginalIdx: 5 + i})
	}
	return out
}

func byID(employees []domain.Employee, id string) domain.Employee {
	for _, e := range employees {
		if e.ID == id {
			return e
		}
	}
	panic("unknown employee " + id)
}

func pick(employees []domain.Employee, ids ...string) []domain.Employee {
	out := make([]domain.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID(employees, id))
	}
	return out
}

func nodeIDs(nodes []domain.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

func memberIDs(n domain.Node) []string {
	out := make([]string, 0, len(n.Members()))
	for _, m := range n.Members() {
		out = append(out, m.ID)
	}
	return out
}

func dist(i, j int) float64 {
	return math.Hypot(scenarioPoints[i][0]-scenarioPoints[j][0], scenarioPoints[i][1]-scenarioPoints[j][1])
}
