package distance

import (
	"context"
	"encoding/json"
	"errors"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/httpx"
	"escort-route-service/internal/platform/obs"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type osrmTableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// OSRMMatrixProvider implements MatrixProvider with the OSRM table service.
// One request returns the full square matrix.
//
// The provider is safe for concurrent use.
type OSRMMatrixProvider struct {
	retrier *httpx.Retrier
	baseURL string
	profile string
}

func NewOSRMMatrixProvider(baseURL string) (*OSRMMatrixProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}

	return &OSRMMatrixProvider{
		retrier: httpx.NewRetrier(&http.Client{Timeout: 30 * time.Second}),
		baseURL: baseURL,
		profile: "driving",
	}, nil
}

func (o *OSRMMatrixProvider) GetMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
) (_ *domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "matrix.osrm.GetMatrix")(&err)

	if len(locations) == 0 {
		return &domain.TravelMatrix{}, nil
	}

	// OSRM expects lon,lat pairs separated by ';'.
	coords := make([]string, len(locations))
	for i, c := range locations {
		coords[i] = fmt.Sprintf("%.7f,%.7f", c.Lon, c.Lat)
	}
	endpoint := fmt.Sprintf(
		"%s/table/v1/%s/%s?annotations=distance,duration",
		o.baseURL, o.profile, strings.Join(coords, ";"),
	)

	resp, err := o.retrier.Do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("osrm table request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr osrmTableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode osrm table response: %w", err)
	}
	if tr.Code != "" && tr.Code != "Ok" {
		return nil, fmt.Errorf("osrm table: code=%s message=%s", tr.Code, tr.Message)
	}

	n := len(locations)
	dist, err := squareFrom(tr.Distances, n, "distances")
	if err != nil {
		return nil, err
	}
	dur, err := squareFrom(tr.Durations, n, "durations")
	if err != nil {
		return nil, err
	}

	return &domain.TravelMatrix{Distance: dist, Time: dur}, nil
}

// squareFrom copies an n x n response table, rejecting truncated tables and
// unreachable (null) cells.
func squareFrom(rows [][]*float64, n int, name string) ([][]float64, error) {
	if len(rows) != n {
		return nil, fmt.Errorf("osrm table: expected %d %s rows, got %d: %w", n, name, len(rows), domain.ErrInvalidMatrix)
	}

	out := domain.NewSquare(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("osrm table: %s row %d has %d cells, want %d: %w", name, i, len(row), n, domain.ErrInvalidMatrix)
		}
		for j, v := range row {
			if v == nil {
				return nil, fmt.Errorf("osrm table: no route for %s[%d][%d]: %w", name, i, j, domain.ErrInvalidMatrix)
			}
			out[i][j] = *v
		}
	}
	return out, nil
}
