package api

import (
	"escort-route-service/internal/api/handlers"
	"escort-route-service/internal/platform/obs"
	"escort-route-service/internal/ports"
	"escort-route-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// roster may be nil when no database is configured.
func NewRouter(planner *services.TripPlanner, roster ports.EmployeeRepository) http.Handler {
	obs.Register()
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{
		RosterEnabled: roster != nil,
		SolverEnabled: planner.Solver != nil,
	}
	employeeHandler := &handlers.EmployeeHandler{Repo: roster}
	planHandler := &handlers.PlanHandler{Planner: planner}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/employees", employeeHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/optimise", planHandler.Optimise)

	routes := map[string]bool{
		"/health":    true,
		"/metrics":   true,
		"/employees": true,
		"/plans":     true,
		"/optimise":  true,
	}
	return requestIDMiddleware(loggingMiddleware(routes, mux))
}
