package distance

import (
	"context"
	"escort-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DefaultStraightLineSpeed is the assumed travel speed in meters per second.
const DefaultStraightLineSpeed = 10.0

// StraightLineProvider builds a great-circle matrix with a constant speed.
// It is a diagnostic aid and never stands in for a road network.
type StraightLineProvider struct {
	SpeedMetersPerSecond float64
}

func NewStraightLineProvider() *StraightLineProvider {
	return &StraightLineProvider{SpeedMetersPerSecond: DefaultStraightLineSpeed}
}

func (s *StraightLineProvider) GetMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
) (*domain.TravelMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	speed := s.SpeedMetersPerSecond
	if speed <= 0 {
		speed = DefaultStraightLineSpeed
	}

	n := len(locations)
	m := &domain.TravelMatrix{Distance: domain.NewSquare(n), Time: domain.NewSquare(n)}
	for i := 0; i < n; i++ {
		a := orb.Point{locations[i].Lon, locations[i].Lat}
		for j := i + 1; j < n; j++ {
			d := geo.Distance(a, orb.Point{locations[j].Lon, locations[j].Lat})
			m.Distance[i][j], m.Distance[j][i] = d, d
			m.Time[i][j], m.Time[j][i] = d/speed, d/speed
		}
	}
	return m, nil
}
