package handlers

import (
	"encoding/json"
	"errors"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/httpx"
	"escort-route-service/internal/platform/obs"
	"escort-route-service/internal/services"
	"io"
	"math"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger(r.Context()).Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps planner failures to HTTP statuses. Invalid input and
// configuration are the caller's to fix; upstream failures are not.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var se *httpx.StatusError
	switch {
	case errors.Is(err, domain.ErrInvalidEmployee),
		errors.Is(err, domain.ErrInvalidMatrix),
		errors.Is(err, services.ErrInvalidCapacity),
		errors.Is(err, services.ErrInvalidDetour),
		errors.Is(err, services.ErrNoEmployees):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInfeasible):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &se):
		obs.Logger(r.Context()).Error().Err(err).Str("op", op).Msg("upstream call failed")
		writeError(w, r, http.StatusBadGateway, "upstream service error")
	default:
		obs.Logger(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
