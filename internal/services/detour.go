package services

import (
	"escort-route-service/internal/domain"
	"slices"
)

// MinBaselineSeconds floors the direct travel time used as the detour
// denominator, so riders living next to the office still get a usable budget.
const MinBaselineSeconds = 1800.0

// DetourValidator decides whether every rider of a candidate set reaches home
// within their personal detour bound when dropped in visiting order.
type DetourValidator struct {
	matrix           *domain.TravelMatrix
	maxDetourPercent float64
}

func NewDetourValidator(matrix *domain.TravelMatrix, maxDetourPercent float64) *DetourValidator {
	return &DetourValidator{matrix: matrix, maxDetourPercent: maxDetourPercent}
}

// officeDistance is the cached dist_from_office of an employee.
func (v *DetourValidator) officeDistance(e domain.Employee) float64 {
	return v.matrix.DistanceAt(domain.OfficeIdx, e.OriginalIdx)
}

// Order returns the visiting order: females nearest-first by office distance
// (ties on matrix index), followed by males in their given order.
func (v *DetourValidator) Order(members []domain.Employee) []domain.Employee {
	females := make([]domain.Employee, 0, len(members))
	males := make([]domain.Employee, 0, 1)
	for _, m := range members {
		if m.IsMale() {
			males = append(males, m)
		} else {
			females = append(females, m)
		}
	}

	slices.SortStableFunc(females, func(a, b domain.Employee) int {
		return compareByDistance(v.officeDistance(a), v.officeDistance(b), a, b)
	})

	return append(females, males...)
}

// Valid orders members and checks each rider's detour.
func (v *DetourValidator) Valid(members []domain.Employee) bool {
	return v.ValidOrdered(v.Order(members))
}

// ValidOrdered walks members in the given order starting at the office and
// fails on the first rider whose detour exceeds the bound.
func (v *DetourValidator) ValidOrdered(ordered []domain.Employee) bool {
	cumulative := 0.0
	prev := domain.OfficeIdx

	for _, m := range ordered {
		cumulative += v.matrix.TimeAt(prev, m.OriginalIdx)

		direct := v.matrix.TimeAt(domain.OfficeIdx, m.OriginalIdx)
		if detourRatio(cumulative, direct) > v.maxDetourPercent {
			return false
		}

		cumulative += m.Service()
		prev = m.OriginalIdx
	}

	return true
}

// detourRatio is the excess over the direct time relative to the floored baseline.
func detourRatio(actual, direct float64) float64 {
	return (actual - direct) / max(direct, MinBaselineSeconds)
}

// compareByDistance orders ascending by distance, then by matrix index.
func compareByDistance(da, db float64, a, b domain.Employee) int {
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	case a.OriginalIdx < b.OriginalIdx:
		return -1
	case a.OriginalIdx > b.OriginalIdx:
		return 1
	}
	return 0
}
