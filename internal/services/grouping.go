package services

import (
	"cmp"
	"errors"
	"escort-route-service/internal/domain"
	"fmt"
	"math"
	"slices"
)

// DefaultPairingCeilingMeters bounds how far a female may live from a male
// for him to be considered as her escort.
const DefaultPairingCeilingMeters = 10000.0

// groupScoreWeight makes one extra rider outweigh any realistic chain length.
const groupScoreWeight = 1000.0

var (
	ErrInvalidCapacity = errors.New("invalid vehicle capacity")
	ErrInvalidDetour   = errors.New("invalid max detour percent")
)

type GroupingParams struct {
	VehicleCapacity  int
	MaxDetourPercent float64
	// PairingCeiling is in meters; zero selects DefaultPairingCeilingMeters.
	PairingCeiling float64
}

func (p GroupingParams) validate() error {
	if p.VehicleCapacity < 2 {
		return fmt.Errorf("group employees: capacity %d must be >= 2: %w", p.VehicleCapacity, ErrInvalidCapacity)
	}
	if math.IsNaN(p.MaxDetourPercent) || math.IsInf(p.MaxDetourPercent, 0) || p.MaxDetourPercent < 0 {
		return fmt.Errorf("group employees: detour %v must be finite and >= 0: %w", p.MaxDetourPercent, ErrInvalidDetour)
	}
	if p.PairingCeiling < 0 {
		return fmt.Errorf("group employees: pairing ceiling %v must be >= 0: %w", p.PairingCeiling, ErrInvalidDetour)
	}
	return nil
}

func (p GroupingParams) ceiling() float64 {
	if p.PairingCeiling == 0 {
		return DefaultPairingCeilingMeters
	}
	return p.PairingCeiling
}

// Grouping is the node list handed to the condenser. Nodes[0] is the office,
// the rest follow creation order. ByIndex maps every employee's OriginalIdx
// to the node that contains it.
type Grouping struct {
	Nodes   []domain.Node
	ByIndex map[int]domain.Node
}

// Counts returns how many nodes of each kind were produced.
func (g *Grouping) Counts() map[domain.NodeKind]int {
	out := make(map[domain.NodeKind]int, 4)
	for _, n := range g.Nodes {
		out[n.Kind()]++
	}
	return out
}

type grouper struct {
	matrix     *domain.TravelMatrix
	params     GroupingParams
	validator  *DetourValidator
	unassigned map[int]struct{}
	out        *Grouping
}

type candidateGroup struct {
	escort  domain.Employee
	ordered []domain.Employee
	score   float64
}

// GroupEmployees partitions employees into escorted groups, guarded groups and
// lone male riders such that each node fits one vehicle and every member
// stays within the detour bound.
//
// The algorithm is greedy and deterministic: iteration follows input order and
// every sort breaks ties on OriginalIdx. It is not a global optimum.
func GroupEmployees(
	employees []domain.Employee,
	office domain.Coordinates,
	matrix *domain.TravelMatrix,
	params GroupingParams,
) (*Grouping, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmployees(employees); err != nil {
		return nil, fmt.Errorf("group employees: %w", err)
	}
	if err := matrix.Validate(len(employees)); err != nil {
		return nil, fmt.Errorf("group employees: %w", err)
	}
	for _, e := range employees {
		if e.OriginalIdx >= matrix.Size() {
			return nil, fmt.Errorf(
				"group employees: employee %q index %d outside matrix of size %d: %w",
				e.ID, e.OriginalIdx, matrix.Size(), domain.ErrInvalidMatrix,
			)
		}
	}

	g := &grouper{
		matrix:     matrix,
		params:     params,
		validator:  NewDetourValidator(matrix, params.MaxDetourPercent),
		unassigned: make(map[int]struct{}, len(employees)),
		out: &Grouping{
			Nodes:   []domain.Node{domain.Office{Location: office}},
			ByIndex: make(map[int]domain.Node, len(employees)),
		},
	}

	var males, females []domain.Employee
	for _, e := range employees {
		g.unassigned[e.OriginalIdx] = struct{}{}
		if e.IsMale() {
			males = append(males, e)
		} else {
			females = append(females, e)
		}
	}

	g.escortedGroups(males, females)
	g.guardedGroups(females)
	g.loneMales(males)

	return g.out, nil
}

func (g *grouper) isUnassigned(e domain.Employee) bool {
	_, ok := g.unassigned[e.OriginalIdx]
	return ok
}

func (g *grouper) commit(n domain.Node) {
	g.out.Nodes = append(g.out.Nodes, n)
	for _, m := range n.Members() {
		delete(g.unassigned, m.OriginalIdx)
		g.out.ByIndex[m.OriginalIdx] = n
	}
}

// escortedGroups commits one best group per pass until no male can escort anyone.
func (g *grouper) escortedGroups(males, females []domain.Employee) {
	for {
		var best *candidateGroup
		for _, m := range males {
			if !g.isUnassigned(m) {
				continue
			}
			c := g.buildCandidate(m, females)
			if c == nil {
				continue
			}
			if best == nil || c.score > best.score {
				best = c
			}
		}
		if best == nil {
			return
		}

		g.commit(domain.NewGroup(best.ordered[:len(best.ordered)-1], best.escort, g.matrix))
	}
}

// buildCandidate returns the best group this male can escort right now, or
// nil when no female qualifies.
func (g *grouper) buildCandidate(m domain.Employee, females []domain.Employee) *candidateGroup {
	ceiling := g.params.ceiling()

	candidates := make([]domain.Employee, 0, len(females))
	for _, f := range females {
		if !g.isUnassigned(f) {
			continue
		}
		if g.matrix.DistanceAt(f.OriginalIdx, m.OriginalIdx) > ceiling {
			continue
		}
		if !g.twoHopWithinDetour(f, m) {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return nil
	}

	slices.SortStableFunc(candidates, func(a, b domain.Employee) int {
		return compareByDistance(
			g.matrix.DistanceAt(a.OriginalIdx, m.OriginalIdx),
			g.matrix.DistanceAt(b.OriginalIdx, m.OriginalIdx),
			a, b,
		)
	})

	picked := make([]domain.Employee, 0, g.params.VehicleCapacity-1)
	for _, f := range candidates {
		if len(picked) >= g.params.VehicleCapacity-1 {
			break
		}
		trial := append(slices.Clone(picked), f, m)
		if g.validator.Valid(trial) {
			picked = append(picked, f)
		}
	}
	if len(picked) == 0 {
		return nil
	}

	ordered := g.validator.Order(append(picked, m))
	return &candidateGroup{
		escort:  m,
		ordered: ordered,
		score:   groupScoreWeight*float64(len(picked)) - g.chainKm(ordered),
	}
}

// twoHopWithinDetour is a cheap distance-based screen: office -> female ->
// male must not exceed the male's direct distance by more than the bound.
func (g *grouper) twoHopWithinDetour(f, m domain.Employee) bool {
	direct := g.matrix.DistanceAt(domain.OfficeIdx, m.OriginalIdx)
	extra := g.matrix.DistanceAt(domain.OfficeIdx, f.OriginalIdx) +
		g.matrix.DistanceAt(f.OriginalIdx, m.OriginalIdx) - direct
	if direct == 0 {
		return extra <= 0
	}
	return extra/direct <= g.params.MaxDetourPercent
}

// chainKm is the member-to-member distance of an ordered group, in km.
func (g *grouper) chainKm(ordered []domain.Employee) float64 {
	meters := 0.0
	for k := 0; k+1 < len(ordered); k++ {
		meters += g.matrix.DistanceAt(ordered[k].OriginalIdx, ordered[k+1].OriginalIdx)
	}
	return meters / 1000
}

// guardedGroups batches leftover females farthest-first.
func (g *grouper) guardedGroups(females []domain.Employee) {
	remaining := make([]domain.Employee, 0, len(females))
	for _, f := range females {
		if g.isUnassigned(f) {
			remaining = append(remaining, f)
		}
	}

	slices.SortStableFunc(remaining, func(a, b domain.Employee) int {
		// Farthest first; equal distances keep ascending index order.
		if c := cmp.Compare(
			g.matrix.DistanceAt(domain.OfficeIdx, b.OriginalIdx),
			g.matrix.DistanceAt(domain.OfficeIdx, a.OriginalIdx),
		); c != 0 {
			return c
		}
		return cmp.Compare(a.OriginalIdx, b.OriginalIdx)
	})

	for i, seed := range remaining {
		if !g.isUnassigned(seed) {
			continue
		}
		batch := []domain.Employee{seed}
		taken := map[int]struct{}{seed.OriginalIdx: {}}

		for _, f := range remaining[i+1:] {
			if len(batch) >= g.params.VehicleCapacity-1 {
				break
			}
			if _, ok := taken[f.OriginalIdx]; ok || !g.isUnassigned(f) {
				continue
			}
			trial := append(slices.Clone(batch), f)
			if g.validator.Valid(trial) {
				batch = append(batch, f)
				taken[f.OriginalIdx] = struct{}{}
			}
		}

		g.commit(domain.NewGuardedGroup(g.validator.Order(batch), g.matrix))
	}
}

func (g *grouper) loneMales(males []domain.Employee) {
	for _, m := range males {
		if g.isUnassigned(m) {
			g.commit(domain.MaleNode{Rider: m})
		}
	}
}
