package routing

import (
	"context"
	"log"
	"math"
	"time"

	"field-navigator/internal/distance"
	"field-navigator/internal/models"
)

// MetersPerKilometer converts matrix distances to reported kilometers
const MetersPerKilometer = 1000.0

// Optimizer computes the cheapest visiting order for a list of addresses,
// starting and ending at the first entry
type Optimizer interface {
	Optimize(ctx context.Context, addresses []string) *models.RouteResult
}

type tourOptimizer struct {
	source distance.Source
}

// NewOptimizer creates an Optimizer backed by the given distance source
func NewOptimizer(source distance.Source) Optimizer {
	return &tourOptimizer{source: source}
}

// Optimize builds the pairwise distance matrix, solves the tour exactly and
// maps the result back onto the input addresses. It never returns an error:
// lookup and solver failures are reported as status "error" with the input
// order preserved, and an unreachable stop as status "infeasible".
func (o *tourOptimizer) Optimize(ctx context.Context, addresses []string) *models.RouteResult {
	n := len(addresses)
	if n <= 1 {
		log.Printf("[ROUTING] Trivial route: stops=%d", n)
		return &models.RouteResult{
			Status:         models.StatusSuccess,
			OptimizedRoute: copyRoute(addresses),
			DistanceKm:     0,
		}
	}
	if n > maxExactStops {
		log.Printf("[ERROR] Too many stops for exact solver: stops=%d limit=%d", n, maxExactStops)
		return fallback(models.StatusError, addresses)
	}

	start := time.Now()
	matrix, err := o.source.BuildMatrix(ctx, addresses)
	if err != nil {
		log.Printf("[ERROR] Distance matrix build failed: stops=%d err=%v", n, err)
		return fallback(models.StatusError, addresses)
	}

	tour, err := SolveTour(matrix)
	if err != nil {
		log.Printf("[ERROR] Tour solve failed: stops=%d err=%v", n, err)
		return fallback(models.StatusError, addresses)
	}

	if math.IsInf(tour.CostMeters, 1) {
		log.Printf("[ROUTING] No finite tour exists: stops=%d", n)
		return fallback(models.StatusInfeasible, addresses)
	}

	route := make([]string, n)
	for i, stop := range tour.Order {
		route[i] = addresses[stop]
	}

	log.Printf("[ROUTING] Route optimized: stops=%d distance=%.0fm", n, tour.CostMeters)
	log.Printf("[TIMING] Route optimization took %v", time.Since(start))

	return &models.RouteResult{
		Status:         models.StatusSuccess,
		OptimizedRoute: route,
		DistanceKm:     tour.CostMeters / MetersPerKilometer,
	}
}

func copyRoute(addresses []string) []string {
	return append([]string(nil), addresses...)
}

// fallback reports a failed or infeasible optimization with the input order
// preserved and a zero distance.
func fallback(status string, addresses []string) *models.RouteResult {
	return &models.RouteResult{
		Status:         status,
		OptimizedRoute: copyRoute(addresses),
		DistanceKm:     0,
	}
}
