package services

import (
	"escort-route-service/internal/domain"
	"fmt"
)

// TripReport is the rider-level view of a solved plan.
type TripReport struct {
	Routes     []domain.RoutePlan
	Summary    domain.RouteSummary
	HighDetour []domain.RouteStop
	Warnings   []LongDistanceWarning
	SolverCost float64
	TripType   string
}

// BuildTripReport expands solver routes over problem locations into ordered
// rider drops. Trip distance is measured along the expanded rider sequence on
// the normalized matrix, starting at the office.
//
// Every task location must be routed exactly once; anything else means the
// solver answer does not belong to this plan.
func BuildTripReport(plan *TripPlan, sol *domain.SolverSolution, highDetourPercent float64) (*TripReport, error) {
	if plan == nil || sol == nil {
		return nil, fmt.Errorf("build trip report: plan and solution must be non-nil")
	}

	report := &TripReport{
		Routes:     []domain.RoutePlan{},
		Warnings:   plan.Warnings,
		SolverCost: sol.Cost,
		TripType:   plan.TripType,
	}

	seen := make(map[int]struct{}, len(plan.Stops))
	for _, r := range sol.Routes {
		route := domain.RoutePlan{VehicleID: r.VehicleID}
		prev := domain.OfficeIdx
		tripMeters := 0.0

		for _, loc := range r.Locations {
			if loc == domain.OfficeIdx {
				continue
			}
			if loc < 0 || loc >= len(plan.Stops) {
				return nil, fmt.Errorf("build trip report: vehicle %s visits unknown location %d", r.VehicleID, loc)
			}
			if _, dup := seen[loc]; dup {
				return nil, fmt.Errorf("build trip report: location %d routed more than once", loc)
			}
			seen[loc] = struct{}{}

			for _, e := range plan.Stops[loc] {
				tripMeters += plan.Matrix.DistanceAt(prev, e.OriginalIdx)
				prev = e.OriginalIdx

				direct := plan.Matrix.DistanceAt(domain.OfficeIdx, e.OriginalIdx)
				extra := 0.0
				if direct > 0 {
					extra = (tripMeters - direct) / direct * 100
				}

				stop := domain.RouteStop{
					Sequence:        len(route.Stops) + 1,
					Employee:        e,
					DirectMeters:    direct,
					TripMeters:      tripMeters,
					ExtraPercentage: extra,
				}
				route.Stops = append(route.Stops, stop)
				if extra > highDetourPercent {
					report.HighDetour = append(report.HighDetour, stop)
				}
			}
		}

		if len(route.Stops) == 0 {
			continue
		}
		route.DistanceMeters = tripMeters
		route.MaleLed = route.Stops[0].Employee.IsMale()
		report.Routes = append(report.Routes, route)
	}

	for loc := 1; loc < len(plan.Stops); loc++ {
		if _, ok := seen[loc]; !ok {
			return nil, fmt.Errorf("build trip report: location %d left unrouted: %w", loc, domain.ErrInfeasible)
		}
	}

	report.Summary = domain.Summarize(report.Routes)
	return report, nil
}
