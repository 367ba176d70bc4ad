package distance

import (
	"context"
	"encoding/json"
	"escort-route-service/internal/domain"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

// gridIndex recovers i from a "lat,lng" point placed at lat = i/100.
func gridIndex(point string) int {
	lat, _ := strconv.ParseFloat(strings.SplitN(point, ",", 2)[0], 64)
	return int(math.Round(lat * 100))
}

func fakeDistanceMatrix(calls *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		origins := strings.Split(r.URL.Query().Get("origins"), "|")
		destinations := strings.Split(r.URL.Query().Get("destinations"), "|")

		rows := make([]map[string]any, 0, len(origins))
		for _, o := range origins {
			elements := make([]map[string]any, 0, len(destinations))
			for _, d := range destinations {
				gap := gridIndex(o) - gridIndex(d)
				if gap < 0 {
					gap = -gap
				}
				elements = append(elements, map[string]any{
					"status":   "OK",
					"distance": map[string]any{"value": gap * 1000, "text": fmt.Sprintf("%d km", gap)},
					"duration": map[string]any{"value": gap * 100, "text": fmt.Sprintf("%d s", gap*100)},
				})
			}
			rows = append(rows, map[string]any{"elements": elements})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":                "OK",
			"origin_addresses":      origins,
			"destination_addresses": destinations,
			"rows":                  rows,
		})
	}
}

func TestGoogleMatrixProviderTiles(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(fakeDistanceMatrix(&calls))
	defer srv.Close()

	p, err := NewGoogleMatrixProvider("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	locs := make([]domain.Coordinates, 12)
	for i := range locs {
		locs[i] = domain.Coordinates{Lat: float64(i) / 100, Lon: 77.5}
	}

	m, err := p.GetMatrix(context.Background(), locs)
	require.NoError(t, err)
	require.NoError(t, m.Validate(11))

	// 12 locations span a 2 x 2 grid of tiles.
	require.Equal(t, int32(4), calls.Load())
	require.Equal(t, 11000.0, m.Distance[0][11])
	require.Equal(t, 1100.0, m.Time[11][0])
	require.Equal(t, 2000.0, m.Distance[9][11])
}

func TestGoogleMatrixProviderRejectsFailedElements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"OK","rows":[
			{"elements":[{"status":"OK","distance":{"value":0},"duration":{"value":0}},{"status":"ZERO_RESULTS"}]},
			{"elements":[{"status":"OK","distance":{"value":10},"duration":{"value":1}},{"status":"OK","distance":{"value":0},"duration":{"value":0}}]}]}`)
	}))
	defer srv.Close()

	p, err := NewGoogleMatrixProvider("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.GetMatrix(context.Background(), twoPoints)
	require.ErrorIs(t, err, domain.ErrInvalidMatrix)
}

func TestNewGoogleMatrixProviderRequiresKey(t *testing.T) {
	_, err := NewGoogleMatrixProvider("")
	require.Error(t, err)
}
