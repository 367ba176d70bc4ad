package cache

import (
	"context"
	"database/sql"
	"errors"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/obs"
	"fmt"
	"time"
)

// SQLMatrixCache is a Postgres-backed cache for full travel matrices.
// Entries older than the TTL are treated as misses and overwritten on Put.
type SQLMatrixCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLMatrixCache(db *sql.DB, ttl time.Duration) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db, TTL: ttl}
}

func (s *SQLMatrixCache) Get(ctx context.Context, key string) (_ *domain.TravelMatrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}
	if key == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	q := `
	SELECT payload
    FROM matrix_cache
    WHERE cache_key = $1
        AND created_at > $2;
	`

	var payload []byte
	err = s.DB.QueryRowContext(ctx, q, key, time.Now().Add(-s.TTL)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		obs.MatrixCacheLookups.WithLabelValues("sql", "miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}

	m, err := decodeMatrix(payload)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: %w", err)
	}
	obs.MatrixCacheLookups.WithLabelValues("sql", "hit").Inc()
	return m, true, nil
}

func (s *SQLMatrixCache) Put(ctx context.Context, key string, m *domain.TravelMatrix) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}
	if key == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}

	payload, err := encodeMatrix(m)
	if err != nil {
		return fmt.Errorf("insert matrix cache: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO matrix_cache (cache_key, payload, created_at)
    VALUES ($1, $2, now())
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = EXCLUDED.created_at;
	`, key, payload)
	if err != nil {
		return fmt.Errorf("insert matrix cache key=%q: %w", key, err)
	}
	return nil
}
