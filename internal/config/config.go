package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"field-navigator/internal/geocoding"
)

// Config holds all runtime configuration
type Config struct {
	GoogleMapsAPIKey string
	ServerAddr       string
	DatabasePath     string
	NominatimBaseURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	godotenv.Load()

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY environment variable is required")
	}

	return &Config{
		GoogleMapsAPIKey: apiKey,
		ServerAddr:       getEnv("SERVER_ADDR", "localhost:8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "field-navigator.db"),
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", geocoding.DefaultBaseURL),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
