package handlers

import (
	"net/http"
)

// HealthHandler is a liveness check that also reports which optional
// backends the process was started with.
type HealthHandler struct {
	RosterEnabled bool
	SolverEnabled bool
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]string{
		"status": "ok",
		"roster": enabled(h.RosterEnabled),
		"solver": enabled(h.SolverEnabled),
	}
	writeJSON(w, r, http.StatusOK, res)
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
