package distance

import (
	"context"
	"escort-route-service/internal/domain"
	"fmt"
)

// MockMatrixProvider returns a fixed matrix and counts calls.
type MockMatrixProvider struct {
	Matrix *domain.TravelMatrix
	Err    error
	Calls  int
}

func NewMockMatrixProvider(m *domain.TravelMatrix) *MockMatrixProvider {
	return &MockMatrixProvider{Matrix: m}
}

func (p *MockMatrixProvider) GetMatrix(ctx context.Context, locations []domain.Coordinates) (*domain.TravelMatrix, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Matrix == nil {
		return nil, fmt.Errorf("mock matrix provider: no matrix for %d locations", len(locations))
	}
	return p.Matrix, nil
}
