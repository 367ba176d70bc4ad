package handlers

import (
	"escort-route-service/internal/api/dto"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/services"
	"fmt"
	"net/http"
	"strings"
)

type PlanHandler struct {
	Planner *services.TripPlanner
}

// Plan groups riders and returns the condensed routing problem without
// calling the solver.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	plan, err := h.Planner.Plan(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "plan trips", err)
		return
	}

	writeJSON(w, r, http.StatusOK, planResponse(plan))
}

// Optimise plans, solves and returns per-vehicle rider routes.
func (h *PlanHandler) Optimise(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	report, err := h.Planner.Optimise(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "optimise trips", err)
		return
	}

	writeJSON(w, r, http.StatusOK, optimiseResponse(report))
}

func (h *PlanHandler) decode(w http.ResponseWriter, r *http.Request) (services.PlanTripsRequest, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return services.PlanTripsRequest{}, false
	}

	var body dto.PlanRequest
	if !decodeJSON(w, r, &body) {
		return services.PlanTripsRequest{}, false
	}

	req, err := toPlanTripsRequest(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return services.PlanTripsRequest{}, false
	}
	return req, true
}

func toPlanTripsRequest(body dto.PlanRequest) (services.PlanTripsRequest, error) {
	if len(body.Config.Office) != 2 {
		return services.PlanTripsRequest{}, fmt.Errorf("config.office must be [lat, lon]")
	}
	if body.Config.MaxCabCapacity < 0 {
		return services.PlanTripsRequest{}, fmt.Errorf("config.max_cab_capacity must be positive")
	}

	req := services.PlanTripsRequest{
		Office:          domain.Coordinates{Lat: body.Config.Office[0], Lon: body.Config.Office[1]},
		VehicleCapacity: body.Config.MaxCabCapacity,
		EscortRequired:  true,
		TripType:        strings.TrimSpace(body.TripType),
	}
	if body.Config.EscortRequired != nil {
		req.EscortRequired = *body.Config.EscortRequired
	}
	if pct := body.Config.ExtraDistPct; pct != nil {
		if *pct < 0 {
			return services.PlanTripsRequest{}, fmt.Errorf("config.extra_dist_pct must not be negative")
		}
		p := *pct / 100
		req.MaxDetourPercent = &p
	}

	req.Employees = make([]domain.Employee, 0, len(body.Employees))
	for i, e := range body.Employees {
		g, err := domain.ParseGender(e.Gender)
		if err != nil {
			return services.PlanTripsRequest{}, fmt.Errorf("employees[%d]: %w", i, err)
		}
		req.Employees = append(req.Employees, domain.Employee{
			ID:          strings.TrimSpace(e.ID),
			Gender:      g,
			Location:    domain.Coordinates{Lat: e.Lat, Lon: e.Lon},
			ServiceTime: e.ServiceTime,
		})
	}
	return req, nil
}

func warningsResponse(ws []services.LongDistanceWarning) []dto.WarningResponse {
	out := make([]dto.WarningResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, dto.WarningResponse{EmployeeID: w.EmployeeID, DistanceKm: round2(w.Km)})
	}
	return out
}

func planResponse(plan *services.TripPlan) dto.PlanResponse {
	p := plan.Problem
	res := dto.PlanResponse{
		EscortRequired:   plan.EscortRequired,
		VehicleCapacity:  plan.VehicleCapacity,
		MaxDetourPercent: plan.MaxDetourPercent,
		Vehicles:         p.Vehicles,
		TimeLimitSeconds: p.TimeLimitSeconds,
		Nodes:            make([]dto.NodeResponse, 0, p.Locations()),
		Warnings:         warningsResponse(plan.Warnings),
	}

	for i := 0; i < p.Locations(); i++ {
		id, kind := locationLabel(plan, i)
		members := make([]string, 0, len(plan.Stops[i]))
		for _, e := range plan.Stops[i] {
			members = append(members, e.ID)
		}
		res.Nodes = append(res.Nodes, dto.NodeResponse{
			Index:       i,
			ID:          id,
			Kind:        kind,
			Members:     members,
			Demand:      p.Demands[i],
			ServiceTime: p.ServiceTimes[i],
			TimeWindow:  p.TimeWindows[i].Pair(),
			VehicleIDs:  p.VehicleMatches[i],
		})
	}
	return res
}

// locationLabel names a problem location. Without grouping every task is a
// single rider.
func locationLabel(plan *services.TripPlan, i int) (string, string) {
	if plan.Grouping != nil {
		n := plan.Grouping.Nodes[i]
		return n.ID(), string(n.Kind())
	}
	if i == domain.OfficeIdx {
		office := domain.Office{}
		return office.ID(), string(office.Kind())
	}
	return "Employee_" + plan.Stops[i][0].ID, "employee"
}

func optimiseResponse(report *services.TripReport) dto.OptimiseResponse {
	res := dto.OptimiseResponse{
		Routes: make([]dto.RouteResponse, 0, len(report.Routes)),
		Summary: dto.SummaryResponse{
			TotalCabs:      report.Summary.TotalVehicles,
			MaleLedCabs:    report.Summary.MaleLed,
			EscortCabs:     report.Summary.EscortVehicles,
			TotalEmployees: report.Summary.TotalEmployees,
			TotalFemales:   report.Summary.TotalFemales,
			TotalMales:     report.Summary.TotalMales,
			TotalDistKm:    round2(report.Summary.DistanceMeters / 1000),
			SolverCost:     round2(report.SolverCost),
		},
		HighDetour: make([]dto.HighDetourResponse, 0, len(report.HighDetour)),
		Warnings:   warningsResponse(report.Warnings),
	}

	for i, rt := range report.Routes {
		details := make([]dto.RouteEmployeeResponse, 0, len(rt.Stops))
		for _, st := range rt.Stops {
			details = append(details, dto.RouteEmployeeResponse{
				Description:     fmt.Sprintf("Pickup #%d", st.Sequence),
				DirectKm:        round2(st.DirectMeters / 1000),
				EmployeeID:      st.Employee.ID,
				ExtraPercentage: round2(st.ExtraPercentage),
				Gender:          st.Employee.Gender.Label(),
				PickupSequence:  st.Sequence,
				TripKm:          round2(st.TripMeters / 1000),
			})
		}

		routeType := "FEMALE-LED PICKUP"
		if rt.MaleLed {
			routeType = "MALE-LED PICKUP"
		}
		res.Routes = append(res.Routes, dto.RouteResponse{
			CabNumber:       i + 1,
			VehicleID:       rt.VehicleID,
			EmployeeDetails: details,
			IsMaleLed:       rt.MaleLed,
			RequiresEscort:  rt.RequiresEscort(),
			RouteType:       routeType,
			TotalDistanceKm: round2(rt.DistanceMeters / 1000),
			TripType:        report.TripType,
		})
	}

	for _, st := range report.HighDetour {
		res.HighDetour = append(res.HighDetour, dto.HighDetourResponse{
			EmployeeID:    st.Employee.ID,
			DetourPercent: round2(st.ExtraPercentage),
			DirectKm:      round2(st.DirectMeters / 1000),
			TripKm:        round2(st.TripMeters / 1000),
		})
	}
	return res
}
