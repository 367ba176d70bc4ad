package distance

import (
	"context"
	"errors"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/obs"
	"fmt"

	"golang.org/x/sync/errgroup"
	"googlemaps.github.io/maps"
)

// googleTile keeps each Distance Matrix call within the 100-element limit.
const googleTile = 10

// GoogleMatrixProvider implements MatrixProvider with the Google Distance
// Matrix API. Large location sets are fetched as concurrent tiles.
type GoogleMatrixProvider struct {
	client      *maps.Client
	concurrency int
}

// NewGoogleMatrixProvider builds a provider; extra client options (such as
// maps.WithBaseURL) are passed through.
func NewGoogleMatrixProvider(apiKey string, opts ...maps.ClientOption) (*GoogleMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create google maps client: %w", err)
	}
	return &GoogleMatrixProvider{client: client, concurrency: 4}, nil
}

func (g *GoogleMatrixProvider) GetMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
) (_ *domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "matrix.google.GetMatrix")(&err)

	n := len(locations)
	out := &domain.TravelMatrix{Distance: domain.NewSquare(n), Time: domain.NewSquare(n)}
	if n == 0 {
		return out, nil
	}

	points := make([]string, n)
	for i, c := range locations {
		points[i] = c.LatLngString()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	// Each tile writes a disjoint block of the output.
	for oi := 0; oi < n; oi += googleTile {
		for di := 0; di < n; di += googleTile {
			oEnd, dEnd := min(oi+googleTile, n), min(di+googleTile, n)
			eg.Go(func() error {
				return g.fetchTile(egCtx, points, oi, oEnd, di, dEnd, out)
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (g *GoogleMatrixProvider) fetchTile(
	ctx context.Context,
	points []string,
	oStart, oEnd, dStart, dEnd int,
	out *domain.TravelMatrix,
) error {
	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      points[oStart:oEnd],
		Destinations: points[dStart:dEnd],
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		return fmt.Errorf("google distance matrix [%d:%d]x[%d:%d]: %w", oStart, oEnd, dStart, dEnd, err)
	}

	if len(resp.Rows) != oEnd-oStart {
		return fmt.Errorf("google distance matrix: expected %d rows, got %d: %w", oEnd-oStart, len(resp.Rows), domain.ErrInvalidMatrix)
	}
	for r, row := range resp.Rows {
		if len(row.Elements) != dEnd-dStart {
			return fmt.Errorf("google distance matrix: row %d has %d elements: %w", oStart+r, len(row.Elements), domain.ErrInvalidMatrix)
		}
		for c, el := range row.Elements {
			i, j := oStart+r, dStart+c
			if i == j {
				continue
			}
			if el == nil || el.Status != "OK" {
				status := "missing"
				if el != nil {
					status = el.Status
				}
				return fmt.Errorf("google distance matrix: element [%d][%d] status %s: %w", i, j, status, domain.ErrInvalidMatrix)
			}
			out.Distance[i][j] = float64(el.Distance.Meters)
			out.Time[i][j] = el.Duration.Seconds()
		}
	}
	return nil
}
