package handlers

import (
	"escort-route-service/internal/api/dto"
	"escort-route-service/internal/ports"
	"net/http"
)

// EmployeeHandler exposes read-only roster retrieval endpoints.
type EmployeeHandler struct {
	Repo ports.EmployeeRepository
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "employee roster is not configured")
		return
	}

	employees, err := h.Repo.ListEmployees(r.Context())
	if err != nil {
		writeServiceError(w, r, "list employees", err)
		return
	}

	res := dto.ListEmployeesResponse{
		Employees: make([]dto.EmployeeResponse, 0, len(employees)),
	}
	for _, e := range employees {
		res.Employees = append(res.Employees, dto.EmployeeResponse{
			ID:          e.ID,
			Gender:      e.Gender.Label(),
			Lat:         e.Location.Lat,
			Lon:         e.Location.Lon,
			ServiceTime: e.Service(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
