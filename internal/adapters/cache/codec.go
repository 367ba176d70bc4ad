package cache

import (
	"encoding/json"
	"escort-route-service/internal/domain"
	"fmt"
)

type matrixPayload struct {
	Distance [][]float64 `json:"distance"`
	Time     [][]float64 `json:"time"`
}

func encodeMatrix(m *domain.TravelMatrix) ([]byte, error) {
	b, err := json.Marshal(matrixPayload{Distance: m.Distance, Time: m.Time})
	if err != nil {
		return nil, fmt.Errorf("encode matrix: %w", err)
	}
	return b, nil
}

func decodeMatrix(b []byte) (*domain.TravelMatrix, error) {
	var p matrixPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}
	return &domain.TravelMatrix{Distance: p.Distance, Time: p.Time}, nil
}
