package routing

import (
	"fmt"
	"math"
)

// maxExactStops is the largest stop count the exact solver accepts.
// Held-Karp tables grow as N*2^N, so 18 stops is already ~75MB of state.
const maxExactStops = 18

// Tour is a closed visiting order over distance matrix indices. Order is a
// permutation of 0..N-1 beginning at node 0; the return leg back to node 0
// is implicit in Order but included in CostMeters.
type Tour struct {
	Order      []int
	CostMeters float64
}

// ErrTooManyStops is returned when a matrix exceeds the exact solver's range
type ErrTooManyStops struct {
	Stops int
	Limit int
}

func (e *ErrTooManyStops) Error() string {
	return fmt.Sprintf("exact solver supports at most %d stops, got %d", e.Limit, e.Stops)
}

// SolveTour computes the minimum-cost closed tour over all nodes of the given
// distance matrix, starting and ending at node 0, using Held-Karp dynamic
// programming over (visited bitmask, last node) states.
//
// matrix[i][j] is the cost of traveling from node i to node j; math.Inf(1)
// marks a forbidden edge and is routed around, never added. Ties are broken
// by the first candidate in ascending node-index order at every minimization,
// so the result is deterministic for a given matrix.
//
// When no finite closed tour exists, SolveTour returns the nodes in input
// order with CostMeters = +Inf rather than an error; callers decide how to
// surface infeasibility.
func SolveTour(matrix [][]float64) (*Tour, error) {
	n := len(matrix)
	if n == 0 {
		return nil, fmt.Errorf("distance matrix is empty")
	}
	for i, row := range matrix {
		if len(row) != n {
			return nil, fmt.Errorf("distance matrix row %d has %d entries, want %d", i, len(row), n)
		}
	}
	if n > maxExactStops {
		return nil, &ErrTooManyStops{Stops: n, Limit: maxExactStops}
	}
	if n == 1 {
		return &Tour{Order: []int{0}, CostMeters: 0}, nil
	}

	inf := math.Inf(1)
	size := 1 << n
	full := size - 1

	// cost[mask][j]: cheapest path starting at node 0, visiting exactly the
	// nodes in mask, ending at j. parent[mask][j] records the chosen
	// predecessor for reconstruction.
	cost := make([][]float64, size)
	parent := make([][]int, size)
	for mask := range cost {
		cost[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for j := 0; j < n; j++ {
			cost[mask][j] = inf
			parent[mask][j] = -1
		}
	}
	cost[1][0] = 0

	// Ascending numeric mask order visits every subset before its supersets.
	for mask := 1; mask <= full; mask++ {
		if mask&1 == 0 {
			// Every partial path contains the start node.
			continue
		}
		for j := 1; j < n; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			prev := mask ^ (1 << j)
			best := inf
			bestFrom := -1
			for i := 0; i < n; i++ {
				if prev&(1<<i) == 0 {
					continue
				}
				c := cost[prev][i]
				if math.IsInf(c, 1) {
					continue
				}
				edge := matrix[i][j]
				if math.IsInf(edge, 1) {
					continue
				}
				if cand := c + edge; cand < best {
					best = cand
					bestFrom = i
				}
			}
			cost[mask][j] = best
			parent[mask][j] = bestFrom
		}
	}

	// Close the cycle: cheapest full path plus its return leg to node 0.
	bestCost := inf
	bestLast := -1
	for j := 1; j < n; j++ {
		c := cost[full][j]
		if math.IsInf(c, 1) {
			continue
		}
		edge := matrix[j][0]
		if math.IsInf(edge, 1) {
			continue
		}
		if cand := c + edge; cand < bestCost {
			bestCost = cand
			bestLast = j
		}
	}

	if bestLast < 0 {
		// Disconnected under the forbidden-edge rule: no closed tour exists.
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return &Tour{Order: order, CostMeters: inf}, nil
	}

	order := make([]int, n)
	mask := full
	j := bestLast
	for k := n - 1; k >= 1; k-- {
		order[k] = j
		p := parent[mask][j]
		mask ^= 1 << j
		j = p
	}
	order[0] = 0

	return &Tour{Order: order, CostMeters: bestCost}, nil
}
