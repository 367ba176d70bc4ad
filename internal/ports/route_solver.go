package ports

import (
	"context"
	"escort-route-service/internal/domain"
)

// Contract for the external vehicle routing solver.
type RouteSolver interface {
	// Solve returns one route per used vehicle, or an error wrapping
	// domain.ErrInfeasible when no assignment satisfies the constraints.
	Solve(ctx context.Context, problem *domain.RoutingProblem) (*domain.SolverSolution, error)
}
