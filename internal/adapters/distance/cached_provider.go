package distance

import (
	"context"
	"errors"
	"escort-route-service/internal/adapters/cache"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/obs"
	"escort-route-service/internal/ports"
	"fmt"
)

// CachedMatrixProvider consults caches in order before calling the
// underlying provider. A hit in a later cache is copied into the earlier
// ones; a fetched matrix is written to all of them.
//
// Cache failures are logged and never fail a request.
type CachedMatrixProvider struct {
	next   ports.MatrixProvider
	caches []ports.MatrixCache
}

func NewCachedMatrixProvider(next ports.MatrixProvider, caches ...ports.MatrixCache) (*CachedMatrixProvider, error) {
	if next == nil {
		return nil, errors.New("cached matrix provider: next provider is nil")
	}
	return &CachedMatrixProvider{next: next, caches: caches}, nil
}

func (p *CachedMatrixProvider) GetMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
) (*domain.TravelMatrix, error) {
	key := cache.MatrixKey(locations)
	log := obs.Logger(ctx)

	for i, c := range p.caches {
		m, ok, err := c.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("matrix cache lookup failed")
			continue
		}
		if !ok {
			continue
		}
		if m.Validate(len(locations)-1) != nil || m.Size() != len(locations) {
			log.Warn().Str("key", key).Msg("discarding malformed cached matrix")
			continue
		}
		p.store(ctx, key, m, p.caches[:i])
		return m, nil
	}

	m, err := p.next.GetMatrix(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("cached matrix provider: %w", err)
	}
	p.store(ctx, key, m, p.caches)
	return m, nil
}

func (p *CachedMatrixProvider) store(ctx context.Context, key string, m *domain.TravelMatrix, caches []ports.MatrixCache) {
	for _, c := range caches {
		if err := c.Put(ctx, key, m); err != nil {
			obs.Logger(ctx).Warn().Err(err).Str("key", key).Msg("matrix cache store failed")
		}
	}
}
