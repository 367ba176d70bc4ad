package services

import (
	"escort-route-service/internal/domain"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// BuildTimeWindows returns one window per location: the office first, then
// employees 1..totalEmployees by matrix index. An employee may be dropped no
// earlier than their direct travel time and no later than the detour bound.
func BuildTimeWindows(totalEmployees int, timeMatrix [][]float64, maxDetourPercent float64) ([]domain.TimeWindow, error) {
	if totalEmployees < 0 {
		return nil, fmt.Errorf("build time windows: negative employee count %d", totalEmployees)
	}
	if len(timeMatrix) == 0 || len(timeMatrix[domain.OfficeIdx]) < totalEmployees+1 {
		return nil, fmt.Errorf(
			"build time windows: time matrix does not cover %d employees: %w",
			totalEmployees, domain.ErrInvalidMatrix,
		)
	}

	windows := make([]domain.TimeWindow, totalEmployees+1)
	windows[domain.OfficeIdx] = domain.OfficeWindow()

	for i := 1; i <= totalEmployees; i++ {
		direct := timeMatrix[domain.OfficeIdx][i]
		windows[i] = domain.TimeWindow{
			Earliest: int(math.Floor(direct)),
			Latest:   int(math.Floor(max(direct, MinBaselineSeconds) * (1 + maxDetourPercent))),
		}
	}

	return windows, nil
}

// BuildNodeTimeWindows returns the arrival window at each node's entry.
//
// Member k of a node is reached O_k seconds after the vehicle arrives at the
// node, where O_k sums member services and internal travel before it. The
// node window is the intersection of every member's own window shifted by
// -O_k, so an arrival inside it keeps all members within their bound.
//
// An empty intersection means the grouping admitted a node no arrival can
// satisfy. The window then collapses to its lower bound and a warning is logged.
func BuildNodeTimeWindows(nodes []domain.Node, matrix *domain.TravelMatrix, maxDetourPercent float64) []domain.TimeWindow {
	windows := make([]domain.TimeWindow, len(nodes))

	for i, n := range nodes {
		members := n.Members()
		if len(members) == 0 {
			windows[i] = domain.OfficeWindow()
			continue
		}

		lo, hi := math.Inf(-1), math.Inf(1)
		offset := 0.0
		for k, m := range members {
			if k > 0 {
				prev := members[k-1]
				offset += prev.Service() + matrix.TimeAt(prev.OriginalIdx, m.OriginalIdx)
			}
			direct := matrix.TimeAt(domain.OfficeIdx, m.OriginalIdx)
			lo = max(lo, direct-offset)
			hi = min(hi, max(direct, MinBaselineSeconds)*(1+maxDetourPercent)-offset)
		}

		w := domain.TimeWindow{Earliest: int(math.Floor(lo)), Latest: int(math.Floor(hi))}
		if w.Empty() {
			log.Warn().
				Str("node", n.ID()).
				Int("earliest", w.Earliest).
				Int("latest", w.Latest).
				Msg("empty node time window, collapsing to earliest")
			w.Latest = w.Earliest
		}
		windows[i] = w
	}

	return windows
}
