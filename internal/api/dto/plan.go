package dto

type PlanConfig struct {
	// Office is [lat, lon].
	Office         []float64 `json:"office"`
	MaxCabCapacity int       `json:"max_cab_capacity"`
	// ExtraDistPct is a percentage (20 = 20%).
	ExtraDistPct   *float64 `json:"extra_dist_pct"`
	EscortRequired *bool    `json:"escort_required"`
}

type PlanRequest struct {
	Employees []EmployeeRequest `json:"employees"`
	Config    PlanConfig        `json:"config"`
	TripType  string            `json:"trip_type"`
}

type WarningResponse struct {
	EmployeeID string  `json:"employee_id"`
	DistanceKm float64 `json:"distance_km"`
}

type NodeResponse struct {
	Index       int      `json:"index"`
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Members     []string `json:"members"`
	Demand      int      `json:"demand"`
	ServiceTime float64  `json:"service_time"`
	TimeWindow  [2]int   `json:"time_window"`
	VehicleIDs  []int    `json:"vehicle_ids,omitempty"`
}

type PlanResponse struct {
	EscortRequired   bool              `json:"escort_required"`
	VehicleCapacity  int               `json:"vehicle_capacity"`
	MaxDetourPercent float64           `json:"max_detour_percent"`
	Vehicles         int               `json:"vehicles"`
	TimeLimitSeconds int               `json:"time_limit_seconds"`
	Nodes            []NodeResponse    `json:"nodes"`
	Warnings         []WarningResponse `json:"long_distance_warnings"`
}

type RouteEmployeeResponse struct {
	Description     string  `json:"description"`
	DirectKm        float64 `json:"direct_km"`
	EmployeeID      string  `json:"employee_id"`
	ExtraPercentage float64 `json:"extra_percentage"`
	Gender          string  `json:"gender"`
	PickupSequence  int     `json:"pickup_sequence"`
	TripKm          float64 `json:"trip_km"`
}

type RouteResponse struct {
	CabNumber       int                     `json:"cab_number"`
	VehicleID       string                  `json:"vehicle_id"`
	EmployeeDetails []RouteEmployeeResponse `json:"employee_details"`
	IsMaleLed       bool                    `json:"is_male_led"`
	RequiresEscort  bool                    `json:"requires_escort"`
	RouteType       string                  `json:"route_type"`
	TotalDistanceKm float64                 `json:"total_distance_km"`
	TripType        string                  `json:"trip_type"`
}

type SummaryResponse struct {
	TotalCabs      int     `json:"total_cabs"`
	MaleLedCabs    int     `json:"male_led_cabs"`
	EscortCabs     int     `json:"escort_cabs"`
	TotalEmployees int     `json:"total_employees"`
	TotalFemales   int     `json:"total_females"`
	TotalMales     int     `json:"total_males"`
	TotalDistKm    float64 `json:"total_distance_km"`
	SolverCost     float64 `json:"solver_cost"`
}

type HighDetourResponse struct {
	EmployeeID    string  `json:"id"`
	DetourPercent float64 `json:"detour_percent"`
	DirectKm      float64 `json:"direct_km"`
	TripKm        float64 `json:"trip_km"`
}

type OptimiseResponse struct {
	Routes     []RouteResponse      `json:"routes"`
	Summary    SummaryResponse      `json:"summary"`
	HighDetour []HighDetourResponse `json:"high_detour_employees"`
	Warnings   []WarningResponse    `json:"long_distance_warnings"`
}
