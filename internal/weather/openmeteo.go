package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"field-navigator/internal/geocoding"
	"field-navigator/internal/models"
)

// DefaultBaseURL is the public Open-Meteo forecast API
const DefaultBaseURL = "https://api.open-meteo.com"

// weatherCodes maps WMO interpretation codes to human-readable conditions
var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm (slight or moderate)",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Describe returns the condition description for a WMO weather code
func Describe(code int) string {
	if description, ok := weatherCodes[code]; ok {
		return description
	}
	return fmt.Sprintf("Unknown. Weather code: %d", code)
}

// ErrWeatherUnavailable is returned when current conditions cannot be fetched
// for a resolved location
type ErrWeatherUnavailable struct {
	Address string
	Reason  string
}

func (e *ErrWeatherUnavailable) Error() string {
	return fmt.Sprintf("weather unavailable for %s: %s", e.Address, e.Reason)
}

// Service reports current conditions at an address
type Service interface {
	Current(ctx context.Context, address string) (*models.WeatherReport, error)
}

type openMeteoService struct {
	geocoder   geocoding.Geocoder
	baseURL    string
	httpClient *http.Client
}

type openMeteoResponse struct {
	CurrentWeather *openMeteoCurrent `json:"current_weather"`
}

type openMeteoCurrent struct {
	Temperature   float64 `json:"temperature"`
	Windspeed     float64 `json:"windspeed"`
	Winddirection float64 `json:"winddirection"`
	Weathercode   int     `json:"weathercode"`
}

// NewService creates a weather service that resolves addresses through the
// given geocoder and reads current conditions from Open-Meteo
func NewService(geocoder geocoding.Geocoder, baseURL string) Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &openMeteoService{
		geocoder: geocoder,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *openMeteoService) Current(ctx context.Context, address string) (*models.WeatherReport, error) {
	location, err := s.geocoder.LookupWithRetry(ctx, address, 3)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", address, err)
	}

	queryURL := fmt.Sprintf("%s/v1/forecast?latitude=%.4f&longitude=%.4f&current_weather=true",
		s.baseURL, location.Coords.Lat, location.Coords.Lng)
	log.Printf("[WEATHER] Request: address=%s lat=%.4f lng=%.4f", address, location.Coords.Lat, location.Coords.Lng)

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		return nil, &ErrWeatherUnavailable{Address: address, Reason: err.Error()}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] Weather API request failed: address=%s err=%v", address, err)
		return nil, &ErrWeatherUnavailable{Address: address, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] Weather API error: address=%s status=%d body=%s", address, resp.StatusCode, string(body))
		return nil, &ErrWeatherUnavailable{
			Address: address,
			Reason:  fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	var weather openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&weather); err != nil {
		log.Printf("[ERROR] Failed to decode weather response: address=%s err=%v", address, err)
		return nil, &ErrWeatherUnavailable{Address: address, Reason: err.Error()}
	}

	if weather.CurrentWeather == nil {
		log.Printf("[ERROR] Weather response missing current conditions: address=%s", address)
		return nil, &ErrWeatherUnavailable{Address: address, Reason: "no current weather data"}
	}

	current := weather.CurrentWeather
	log.Printf("[WEATHER] Response: address=%s code=%d temp=%.1f", address, current.Weathercode, current.Temperature)

	return &models.WeatherReport{
		Description:      Describe(current.Weathercode),
		TemperatureC:     current.Temperature,
		WindspeedKmh:     current.Windspeed,
		WindDirectionDeg: current.Winddirection,
		Coords:           location.Coords,
	}, nil
}
