package routing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-navigator/internal/models"
	"field-navigator/internal/testutil"
)

func TestOptimizeSingleAddress(t *testing.T) {
	source := testutil.NewStaticSource()
	opt := NewOptimizer(source)

	result := opt.Optimize(context.Background(), []string{"221B Baker Street"})

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, []string{"221B Baker Street"}, result.OptimizedRoute)
	assert.Equal(t, 0.0, result.DistanceKm)
	assert.Empty(t, source.Calls, "trivial input must not hit the distance source")
}

func TestOptimizeEmptyInput(t *testing.T) {
	source := testutil.NewStaticSource()
	opt := NewOptimizer(source)

	result := opt.Optimize(context.Background(), nil)

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Empty(t, result.OptimizedRoute)
	assert.Equal(t, 0.0, result.DistanceKm)
	assert.Empty(t, source.Calls)
}

func TestOptimizeFourStops(t *testing.T) {
	// Unique shortest cycle is Depot -> A -> C -> B -> Depot at 10 meters.
	source := testutil.NewStaticSource()
	source.Matrix = [][]float64{
		{0, 2, 4, 9},
		{4, 0, 9, 3},
		{3, 9, 0, 3},
		{9, 4, 2, 0},
	}
	opt := NewOptimizer(source)

	result := opt.Optimize(context.Background(), []string{"Depot", "A", "B", "C"})

	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, []string{"Depot", "A", "C", "B"}, result.OptimizedRoute)
	assert.InDelta(t, 0.01, result.DistanceKm, 1e-12)
	require.Len(t, source.Calls, 1)
	assert.Equal(t, []string{"Depot", "A", "B", "C"}, source.Calls[0])
}

func TestOptimizeFollowsOverriddenPairs(t *testing.T) {
	source := testutil.NewStaticSource()
	source.SetDistance("Depot", "B", 100)
	source.SetDistance("B", "A", 100)
	source.SetDistance("A", "Depot", 100)
	opt := NewOptimizer(source)

	result := opt.Optimize(context.Background(), []string{"Depot", "A", "B"})

	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, []string{"Depot", "B", "A"}, result.OptimizedRoute)
	assert.InDelta(t, 0.3, result.DistanceKm, 1e-12)
}

func TestOptimizeRoutesAroundUnroutablePair(t *testing.T) {
	// A and B are mutually unreachable; every other leg costs one meter.
	inf := math.Inf(1)
	source := testutil.NewStaticSource()
	source.Matrix = [][]float64{
		{0, 1, 1, 1},
		{1, 0, inf, 1},
		{1, inf, 0, 1},
		{1, 1, 1, 0},
	}
	opt := NewOptimizer(source)

	result := opt.Optimize(context.Background(), []string{"Depot", "A", "B", "C"})

	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, []string{"Depot", "B", "C", "A"}, result.OptimizedRoute)
	assert.InDelta(t, 0.004, result.DistanceKm, 1e-12)
}

func TestOptimizeMatrixBuildFailure(t *testing.T) {
	source := testutil.NewStaticSource()
	source.Err = assert.AnError
	opt := NewOptimizer(source)

	addresses := []string{"Depot", "A", "B"}
	result := opt.Optimize(context.Background(), addresses)

	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, addresses, result.OptimizedRoute)
	assert.Equal(t, 0.0, result.DistanceKm)
}

func TestOptimizeMalformedMatrix(t *testing.T) {
	source := testutil.NewStaticSource()
	source.Matrix = [][]float64{{0, 1}}
	opt := NewOptimizer(source)

	result := opt.Optimize(context.Background(), []string{"Depot", "A"})

	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, []string{"Depot", "A"}, result.OptimizedRoute)
}

func TestOptimizeInfeasible(t *testing.T) {
	inf := math.Inf(1)
	source := testutil.NewStaticSource()
	source.Matrix = [][]float64{
		{0, inf, inf},
		{inf, 0, inf},
		{inf, inf, 0},
	}
	opt := NewOptimizer(source)

	addresses := []string{"Depot", "A", "B"}
	result := opt.Optimize(context.Background(), addresses)

	assert.Equal(t, models.StatusInfeasible, result.Status)
	assert.Equal(t, addresses, result.OptimizedRoute)
	assert.Equal(t, 0.0, result.DistanceKm)
}

func TestOptimizeTooManyStops(t *testing.T) {
	source := testutil.NewStaticSource()
	opt := NewOptimizer(source)

	addresses := make([]string, maxExactStops+1)
	for i := range addresses {
		addresses[i] = "stop"
	}

	result := opt.Optimize(context.Background(), addresses)

	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, addresses, result.OptimizedRoute)
	assert.Empty(t, source.Calls, "oversized input must be rejected before any lookup")
}

func TestOptimizeDoesNotAliasInput(t *testing.T) {
	source := testutil.NewStaticSource()
	source.Err = assert.AnError
	opt := NewOptimizer(source)

	addresses := []string{"Depot", "A", "B"}
	result := opt.Optimize(context.Background(), addresses)

	addresses[0] = "mutated"
	assert.Equal(t, "Depot", result.OptimizedRoute[0])
}
