package distance

import (
	"context"
	"fmt"
	"log"
	"math"

	"googlemaps.github.io/maps"

	"field-navigator/internal/database"
	"field-navigator/internal/models"
)

// Source builds pairwise driving-distance matrices for address lists
type Source interface {
	BuildMatrix(ctx context.Context, addresses []string) ([][]float64, error)
}

// DistanceMatrixAPI is the slice of *maps.Client the builder depends on
type DistanceMatrixAPI interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// ErrMatrixLookupFailed is returned when the Distance Matrix API call itself
// fails. Individual unroutable pairs are reported as +Inf cells instead.
type ErrMatrixLookupFailed struct {
	Stops  int
	Reason string
}

func (e *ErrMatrixLookupFailed) Error() string {
	return fmt.Sprintf("distance matrix lookup failed for %d stops: %s", e.Stops, e.Reason)
}

// Distance Matrix API request limits
const (
	maxOriginsPerRequest  = 25
	maxElementsPerRequest = 100
)

type googleSource struct {
	api   DistanceMatrixAPI
	cache database.DistanceCacheRepository
}

// NewGoogleSource creates a Source backed by the Google Distance Matrix API.
// A nil cache disables pair caching.
func NewGoogleSource(api DistanceMatrixAPI, cache database.DistanceCacheRepository) Source {
	return &googleSource{api: api, cache: cache}
}

// BuildMatrix returns the N×N driving-distance matrix in meters for the given
// addresses. matrix[i][i] is 0 and pairs without a usable route are +Inf.
// Cached pairs fill the matrix first; rows with anything still missing are
// fetched from the API and finite results are written back in one batch.
func (s *googleSource) BuildMatrix(ctx context.Context, addresses []string) ([][]float64, error) {
	n := len(addresses)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i != j {
				matrix[i][j] = math.Inf(1)
			}
		}
	}
	if n <= 1 {
		return matrix, nil
	}

	needFetch := make([]bool, n)
	cached := 0
	if s.cache != nil {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				entry, err := s.cache.Get(ctx, addresses[i], addresses[j])
				if err != nil {
					return nil, fmt.Errorf("reading distance cache: %w", err)
				}
				if entry != nil {
					matrix[i][j] = entry.DistanceMeters
					cached++
				} else {
					needFetch[i] = true
				}
			}
		}
	} else {
		for i := range needFetch {
			needFetch[i] = true
		}
	}

	var rows []int
	for i, need := range needFetch {
		if need {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		log.Printf("[MAPS] Distance matrix all cached: stops=%d", n)
		return matrix, nil
	}

	log.Printf("[MAPS] Distance matrix request: stops=%d cached=%d rows=%d", n, cached, len(rows))
	if err := s.fetchRows(ctx, addresses, rows, matrix); err != nil {
		return nil, err
	}
	return matrix, nil
}

// fetchRows fills the given matrix rows from the Distance Matrix API. Requests
// are chunked so no call exceeds the origin or element limits; destinations
// are always the full address list so a fetched row comes back complete.
func (s *googleSource) fetchRows(ctx context.Context, addresses []string, rows []int, matrix [][]float64) error {
	n := len(addresses)

	destSize := n
	if destSize > maxElementsPerRequest {
		destSize = maxElementsPerRequest
	}
	originSize := maxElementsPerRequest / destSize
	if originSize < 1 {
		originSize = 1
	}
	if originSize > maxOriginsPerRequest {
		originSize = maxOriginsPerRequest
	}

	var entries []models.DistanceCacheEntry
	for ro := 0; ro < len(rows); ro += originSize {
		end := ro + originSize
		if end > len(rows) {
			end = len(rows)
		}
		rowChunk := rows[ro:end]
		origins := make([]string, len(rowChunk))
		for k, i := range rowChunk {
			origins[k] = addresses[i]
		}

		for dc := 0; dc < n; dc += destSize {
			dcEnd := dc + destSize
			if dcEnd > n {
				dcEnd = n
			}
			destinations := addresses[dc:dcEnd]

			resp, err := s.api.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
				Origins:      origins,
				Destinations: destinations,
				Mode:         maps.TravelModeDriving,
				Units:        maps.UnitsMetric,
			})
			if err != nil {
				log.Printf("[ERROR] Distance Matrix API request failed: stops=%d err=%v", n, err)
				return &ErrMatrixLookupFailed{Stops: n, Reason: err.Error()}
			}
			if len(resp.Rows) != len(origins) {
				log.Printf("[ERROR] Distance Matrix API response malformed: rows=%d want=%d", len(resp.Rows), len(origins))
				return &ErrMatrixLookupFailed{
					Stops:  n,
					Reason: fmt.Sprintf("response has %d rows, want %d", len(resp.Rows), len(origins)),
				}
			}

			for k, i := range rowChunk {
				elements := resp.Rows[k].Elements
				if len(elements) != len(destinations) {
					return &ErrMatrixLookupFailed{
						Stops:  n,
						Reason: fmt.Sprintf("row %d has %d elements, want %d", i, len(elements), len(destinations)),
					}
				}
				for d, elem := range elements {
					j := dc + d
					if i == j {
						continue
					}
					if elem.Status != "OK" {
						log.Printf("[MAPS] No route: origin=%q destination=%q status=%s", addresses[i], addresses[j], elem.Status)
						matrix[i][j] = math.Inf(1)
						continue
					}
					meters := float64(elem.Distance.Meters)
					matrix[i][j] = meters
					entries = append(entries, models.DistanceCacheEntry{
						Origin:         addresses[i],
						Destination:    addresses[j],
						DistanceMeters: meters,
					})
				}
			}
		}
	}

	if s.cache != nil && len(entries) > 0 {
		if err := s.cache.SetBatch(ctx, entries); err != nil {
			return fmt.Errorf("caching distances: %w", err)
		}
		log.Printf("[MAPS] Cached %d distance pairs", len(entries))
	}
	return nil
}
