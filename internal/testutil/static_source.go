package testutil

import "context"

// DefaultDistanceMeters is the pair distance used when no override is set
const DefaultDistanceMeters = 1000.0

// StaticSource is a canned distance source for deterministic tests. It
// returns a fixed matrix when one is set, otherwise a uniform grid shaped
// by per-pair overrides, and records every address list it was asked for.
type StaticSource struct {
	Matrix    [][]float64
	Err       error
	Overrides map[string]float64
	Calls     [][]string
}

func NewStaticSource() *StaticSource {
	return &StaticSource{
		Overrides: make(map[string]float64),
	}
}

func (s *StaticSource) makeKey(origin, destination string) string {
	return origin + "->" + destination
}

// SetDistance sets a custom distance for a specific origin-destination pair
func (s *StaticSource) SetDistance(origin, destination string, meters float64) {
	s.Overrides[s.makeKey(origin, destination)] = meters
}

// BuildMatrix returns the canned matrix when one is set, otherwise a
// synthesized square matrix with zero diagonal
func (s *StaticSource) BuildMatrix(ctx context.Context, addresses []string) ([][]float64, error) {
	s.Calls = append(s.Calls, append([]string(nil), addresses...))

	if s.Err != nil {
		return nil, s.Err
	}
	if s.Matrix != nil {
		return s.Matrix, nil
	}

	n := len(addresses)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i == j {
				continue
			}
			if meters, ok := s.Overrides[s.makeKey(addresses[i], addresses[j])]; ok {
				matrix[i][j] = meters
			} else {
				matrix[i][j] = DefaultDistanceMeters
			}
		}
	}
	return matrix, nil
}
