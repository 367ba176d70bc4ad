package services

import (
	"errors"
	"escort-route-service/internal/domain"
	"fmt"
)

// CondensedGraph is the node-level problem handed to the route solver. Row
// and column i refer to Nodes[i].
//
// Leg costs run from a node's exit member to the next node's entry member.
// Time spent inside a multi-rider node is carried by ServiceTimes, so the
// solver sees each node as one atomic stop.
type CondensedGraph struct {
	Nodes        []domain.Node
	Distance     [][]float64
	Time         [][]float64
	ServiceTimes []float64
	Demands      []int
}

// Size returns the number of nodes, office included.
func (g *CondensedGraph) Size() int { return len(g.Nodes) }

// Condense projects the employee-level matrix onto the node list.
func Condense(nodes []domain.Node, matrix *domain.TravelMatrix) (*CondensedGraph, error) {
	if len(nodes) == 0 || nodes[0].Kind() != domain.KindOffice {
		return nil, errors.New("condense: first node must be the office")
	}
	size := matrix.Size()
	for _, n := range nodes {
		if n.Entry() >= size || n.Exit() >= size {
			return nil, fmt.Errorf("condense: node %s references index outside matrix of size %d: %w", n.ID(), size, domain.ErrInvalidMatrix)
		}
	}

	k := len(nodes)
	g := &CondensedGraph{
		Nodes:        nodes,
		Distance:     domain.NewSquare(k),
		Time:         domain.NewSquare(k),
		ServiceTimes: make([]float64, k),
		Demands:      make([]int, k),
	}

	for i, from := range nodes {
		g.ServiceTimes[i] = from.ServiceTime()
		g.Demands[i] = from.Demand()

		for j, to := range nodes {
			if i == j {
				continue
			}
			g.Distance[i][j] = matrix.DistanceAt(from.Exit(), to.Entry())
			g.Time[i][j] = matrix.TimeAt(from.Exit(), to.Entry())
		}
	}

	return g, nil
}

// VehicleMatches pins each Group and GuardedGroup to a single vehicle slot,
// assigned round-robin over the fleet. The office and lone males stay free.
// The result is keyed by node index and is a solver hint only.
func VehicleMatches(nodes []domain.Node, vehicles int) map[int][]int {
	out := make(map[int][]int)
	if vehicles <= 0 {
		return out
	}

	next := 0
	for i, n := range nodes {
		if !domain.IsPinned(n) {
			continue
		}
		out[i] = []int{next % vehicles}
		next++
	}
	return out
}
