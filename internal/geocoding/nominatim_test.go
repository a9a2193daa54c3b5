package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeocoder(baseURL string) *nominatimGeocoder {
	return &nominatimGeocoder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: time.NewTicker(1 * time.Millisecond), // Fast rate limit for testing
	}
}

func TestNominatimLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/search")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))

		response := []nominatimResponse{
			{
				Lat:         "9.9312",
				Lon:         "76.2673",
				DisplayName: "Kochi, Ernakulam, Kerala, India",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	result, err := geocoder.Lookup(context.Background(), "Kochi")

	require.NoError(t, err)
	assert.Equal(t, 9.9312, result.Coords.Lat)
	assert.Equal(t, 76.2673, result.Coords.Lng)
	assert.Equal(t, "Kochi, Ernakulam, Kerala, India", result.DisplayName)
}

func TestNominatimLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]nominatimResponse{})
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	result, err := geocoder.Lookup(context.Background(), "Nonexistent Location")

	require.Error(t, err)
	assert.Nil(t, result)

	var geocodingErr *ErrGeocodingFailed
	require.True(t, errors.As(err, &geocodingErr))
	assert.Equal(t, "Nonexistent Location", geocodingErr.Query)
	assert.Contains(t, geocodingErr.Reason, "no results found")
}

func TestNominatimLookupHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	result, err := geocoder.Lookup(context.Background(), "Test Address")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "HTTP 500")

	// Upstream failures are transient and must stay distinguishable from a miss.
	var geocodingErr *ErrGeocodingFailed
	assert.False(t, errors.As(err, &geocodingErr))
}

func TestNominatimLookupInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	result, err := geocoder.Lookup(context.Background(), "Test Address")

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestNominatimLookupInvalidLatLon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := []nominatimResponse{
			{Lat: "invalid", Lon: "76.2673", DisplayName: "Test"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	result, err := geocoder.Lookup(context.Background(), "Test Address")

	require.Error(t, err)
	assert.Nil(t, result)

	var geocodingErr *ErrGeocodingFailed
	require.True(t, errors.As(err, &geocodingErr))
	assert.Contains(t, geocodingErr.Reason, "invalid latitude")
}

func TestNominatimLookupRateLimiting(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		response := []nominatimResponse{
			{Lat: "9.9312", Lon: "76.2673", DisplayName: "Test"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	geocoder := &nominatimGeocoder{
		baseURL: server.URL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: time.NewTicker(50 * time.Millisecond),
	}

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := geocoder.Lookup(context.Background(), "Test")
		require.NoError(t, err)
	}
	elapsed := time.Since(start)

	// Three requests need at least two 50ms ticks after the first.
	assert.True(t, elapsed >= 100*time.Millisecond, "Rate limiting not working")
	assert.Equal(t, 3, requestCount)
}

func TestNominatimLookupWithRetrySuccess(t *testing.T) {
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		if attemptCount < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		response := []nominatimResponse{
			{Lat: "9.9312", Lon: "76.2673", DisplayName: "Kochi"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	result, err := geocoder.LookupWithRetry(context.Background(), "Kochi", 3)

	require.NoError(t, err)
	assert.Equal(t, 9.9312, result.Coords.Lat)
	assert.Equal(t, 2, attemptCount)
}

func TestNominatimLookupWithRetryDoesNotRetryMisses(t *testing.T) {
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]nominatimResponse{})
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	result, err := geocoder.LookupWithRetry(context.Background(), "Nowhere", 3)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, attemptCount, "a definitive miss must not be retried")

	var geocodingErr *ErrGeocodingFailed
	assert.True(t, errors.As(err, &geocodingErr))
}

func TestNominatimLookupContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode([]nominatimResponse{
			{Lat: "9.9312", Lon: "76.2673", DisplayName: "Test"},
		})
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result, err := geocoder.Lookup(ctx, "Test")

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestNominatimLookupUserAgent(t *testing.T) {
	userAgentReceived := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgentReceived = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode([]nominatimResponse{
			{Lat: "9.9312", Lon: "76.2673", DisplayName: "Test"},
		})
	}))
	defer server.Close()

	geocoder := testGeocoder(server.URL)

	_, err := geocoder.Lookup(context.Background(), "Test")

	require.NoError(t, err)
	assert.Equal(t, "FieldNavigator/1.0", userAgentReceived)
}
