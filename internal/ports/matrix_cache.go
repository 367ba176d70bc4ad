package ports

import (
	"context"
	"escort-route-service/internal/domain"
)

// Port: a store for previously fetched travel matrices, keyed by location set.
type MatrixCache interface {
	// Return the cached matrix, or ok=false on a miss.
	Get(ctx context.Context, key string) (m *domain.TravelMatrix, ok bool, err error)
	Put(ctx context.Context, key string, m *domain.TravelMatrix) error
}
