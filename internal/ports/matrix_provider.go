package ports

import (
	"context"
	"escort-route-service/internal/domain"
)

// Contract for retrieving a full travel matrix between locations.
type MatrixProvider interface {
	// Return distance and duration between every ordered pair of locations.
	// Row and column i of the result refer to locations[i].
	GetMatrix(ctx context.Context, locations []domain.Coordinates) (*domain.TravelMatrix, error)
}
