package models

import (
	"fmt"
	"time"
)

// Route optimization outcome reported to callers
const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusInfeasible = "infeasible"
)

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResult is the outcome of a multi-stop route optimization.
// The "distance (in km)" field name is part of the wire contract.
type RouteResult struct {
	Status         string   `json:"status"`
	OptimizedRoute []string `json:"optimized_route"`
	DistanceKm     float64  `json:"distance (in km)"`
}

// Customer represents a field customer's address record
type Customer struct {
	Username  string    `json:"username"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	CreatedAt time.Time `json:"created_at"`
}

// FullAddress returns the customer's address as a single line usable as a route stop
func (c *Customer) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s, %s-%s", c.Street, c.City, c.District, c.State, c.ZipCode)
}

// WeatherReport describes current conditions at a resolved location.
// The unit-suffixed field names mirror the upstream report format.
type WeatherReport struct {
	Description      string      `json:"description"`
	TemperatureC     float64     `json:"temperature (°C)"`
	WindspeedKmh     float64     `json:"windspeed (km/h)"`
	WindDirectionDeg float64     `json:"winddirection (°)"`
	Coords           Coordinates `json:"coords"`
}

// TrafficEstimate describes distance and travel time under current traffic
type TrafficEstimate struct {
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	Distance          string `json:"distance"`
	Duration          string `json:"duration"`
	DurationInTraffic string `json:"duration_in_traffic"`
}

// DirectionsSummary contains turn-by-turn directions for a single route leg
type DirectionsSummary struct {
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	DistanceMeters int      `json:"distance_meters"`
	DurationSecs   float64  `json:"duration_secs"`
	Steps          []string `json:"steps"`
}

// DistanceCacheEntry represents a cached pair-distance lookup
type DistanceCacheEntry struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DistanceMeters float64 `json:"distance_meters"`
}
