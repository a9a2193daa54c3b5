package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"field-navigator/internal/models"
)

// DefaultBaseURL is the public Nominatim instance
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Result contains the result of a geocoding lookup
type Result struct {
	Coords      models.Coordinates
	DisplayName string
}

// Geocoder provides address-to-coordinates conversion
type Geocoder interface {
	Lookup(ctx context.Context, query string) (*Result, error)
	LookupWithRetry(ctx context.Context, query string, maxRetries int) (*Result, error)
}

// ErrGeocodingFailed is returned when a query yields no usable location.
// Transport and upstream failures are returned as plain wrapped errors so
// callers can tell a definitive miss from a lookup that is worth retrying.
type ErrGeocodingFailed struct {
	Query  string
	Reason string
}

func (e *ErrGeocodingFailed) Error() string {
	return fmt.Sprintf("geocoding failed for query: %s - %s", e.Query, e.Reason)
}

type nominatimGeocoder struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *time.Ticker
}

type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimGeocoder creates a Nominatim geocoder. Requests are serialized
// through a one-per-second ticker to honor the Nominatim usage policy.
func NewNominatimGeocoder(baseURL string) Geocoder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &nominatimGeocoder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: time.NewTicker(1 * time.Second),
	}
}

func (g *nominatimGeocoder) Lookup(ctx context.Context, query string) (*Result, error) {
	select {
	case <-g.rateLimiter.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	queryURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(query))
	log.Printf("[GEOCODING] Request: query=%s", query)

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding request: %w", err)
	}

	req.Header.Set("User-Agent", "FieldNavigator/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] Geocoding API request failed: query=%s err=%v", query, err)
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] Geocoding API error: query=%s status=%d body=%s", query, resp.StatusCode, string(body))
		return nil, fmt.Errorf("geocoding request returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Printf("[ERROR] Failed to decode geocoding response: query=%s err=%v", query, err)
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(results) == 0 {
		log.Printf("[GEOCODING] No results found: query=%s", query)
		return nil, &ErrGeocodingFailed{Query: query, Reason: "no results found"}
	}

	result := results[0]
	var lat, lng float64
	if _, err := fmt.Sscanf(result.Lat, "%f", &lat); err != nil {
		log.Printf("[ERROR] Invalid latitude in geocoding response: query=%s lat=%s", query, result.Lat)
		return nil, &ErrGeocodingFailed{Query: query, Reason: "invalid latitude"}
	}
	if _, err := fmt.Sscanf(result.Lon, "%f", &lng); err != nil {
		log.Printf("[ERROR] Invalid longitude in geocoding response: query=%s lng=%s", query, result.Lon)
		return nil, &ErrGeocodingFailed{Query: query, Reason: "invalid longitude"}
	}

	log.Printf("[GEOCODING] Response: query=%s lat=%.6f lng=%.6f display_name=%s", query, lat, lng, result.DisplayName)
	return &Result{
		Coords: models.Coordinates{
			Lat: lat,
			Lng: lng,
		},
		DisplayName: result.DisplayName,
	}, nil
}

// LookupWithRetry retries transient lookup failures with exponential backoff.
// A definitive miss (ErrGeocodingFailed) is returned immediately: a query
// Nominatim cannot resolve now will not resolve a second later.
func (g *nominatimGeocoder) LookupWithRetry(ctx context.Context, query string, maxRetries int) (*Result, error) {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		result, err := g.Lookup(ctx, query)
		if err == nil {
			return result, nil
		}

		var geocodingErr *ErrGeocodingFailed
		if errors.As(err, &geocodingErr) {
			return nil, err
		}

		lastErr = err

		if i < maxRetries-1 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[GEOCODING] Retry %d/%d: query=%s backoff=%v err=%v", i+1, maxRetries, query, backoff, err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	log.Printf("[ERROR] Geocoding failed after %d attempts: query=%s err=%v", maxRetries, query, lastErr)
	return nil, lastErr
}
