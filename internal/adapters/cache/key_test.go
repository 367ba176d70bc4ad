package cache

import (
	"escort-route-service/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrixKey(t *testing.T) {
	a := []domain.Coordinates{{Lat: 12.9716, Lon: 77.5946}, {Lat: 12.9352, Lon: 77.6245}}
	noisy := []domain.Coordinates{{Lat: 12.971600001, Lon: 77.5946}, {Lat: 12.9352, Lon: 77.624499999}}
	reversed := []domain.Coordinates{a[1], a[0]}

	key := MatrixKey(a)
	require.True(t, strings.HasPrefix(key, "matrix:2:"))
	require.Equal(t, key, MatrixKey(noisy))
	require.NotEqual(t, key, MatrixKey(reversed))
	require.NotEqual(t, key, MatrixKey(a[:1]))
}
