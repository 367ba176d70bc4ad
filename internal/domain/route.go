package domain

// Represents one rider's drop in a vehicle route, as reported back to callers.
// Distances are measured along the route from the office.
type RouteStop struct {
	Sequence        int
	Employee        Employee
	DirectMeters    float64
	TripMeters      float64
	ExtraPercentage float64
}

// Represents the planned trip of a single vehicle.
// A RoutePlan is the solver's output expanded from condensed nodes back to
// riders. It is immutable planning data and contains no side effects.
type RoutePlan struct {
	VehicleID      string
	Stops          []RouteStop
	DistanceMeters float64
	// MaleLed is true when the first rider dropped is male; otherwise the
	// vehicle carries an escort or guard.
	MaleLed bool
}

// RequiresEscort reports whether the vehicle needs a guard or escort seat.
func (p RoutePlan) RequiresEscort() bool { return !p.MaleLed }

// Aggregate counts over a set of route plans.
type RouteSummary struct {
	TotalVehicles  int
	MaleLed        int
	EscortVehicles int
	TotalEmployees int
	TotalFemales   int
	TotalMales     int
	DistanceMeters float64
}

// Summarize folds plans into a RouteSummary.
func Summarize(plans []RoutePlan) RouteSummary {
	var s RouteSummary
	for _, p := range plans {
		s.TotalVehicles++
		if p.MaleLed {
			s.MaleLed++
		} else {
			s.EscortVehicles++
		}
		s.DistanceMeters += p.DistanceMeters
		for _, st := range p.Stops {
			s.TotalEmployees++
			if st.Employee.IsMale() {
				s.TotalMales++
			} else {
				s.TotalFemales++
			}
		}
	}
	return s
}
