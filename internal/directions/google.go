package directions

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"field-navigator/internal/models"
)

// DirectionsAPI is the slice of *maps.Client the service depends on
type DirectionsAPI interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// ErrNoRoute is returned when the Directions API finds no route between two
// addresses
type ErrNoRoute struct {
	Origin      string
	Destination string
}

func (e *ErrNoRoute) Error() string {
	return fmt.Sprintf("no route found from %s to %s", e.Origin, e.Destination)
}

// Service provides turn-by-turn directions and traffic-aware travel estimates
type Service interface {
	Steps(ctx context.Context, origin, destination string) (*models.DirectionsSummary, error)
	TrafficETA(ctx context.Context, origin, destination string) (*models.TrafficEstimate, error)
}

type googleService struct {
	api DirectionsAPI
}

// NewService creates a directions service backed by the Google Directions API
func NewService(api DirectionsAPI) Service {
	return &googleService{api: api}
}

// Steps returns the first route's maneuvers as numbered plain-text lines.
func (s *googleService) Steps(ctx context.Context, origin, destination string) (*models.DirectionsSummary, error) {
	log.Printf("[DIRECTIONS] Request: origin=%s destination=%s", origin, destination)

	routes, _, err := s.api.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		log.Printf("[ERROR] Directions API request failed: origin=%s destination=%s err=%v", origin, destination, err)
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		log.Printf("[DIRECTIONS] No route found: origin=%s destination=%s", origin, destination)
		return nil, &ErrNoRoute{Origin: origin, Destination: destination}
	}

	leg := routes[0].Legs[0]
	steps := make([]string, 0, len(leg.Steps))
	for i, step := range leg.Steps {
		steps = append(steps, fmt.Sprintf("%d. %s", i+1, stripHTML(step.HTMLInstructions)))
	}

	log.Printf("[DIRECTIONS] Response: origin=%s destination=%s steps=%d distance=%dm", origin, destination, len(steps), leg.Distance.Meters)
	return &models.DirectionsSummary{
		Origin:         leg.StartAddress,
		Destination:    leg.EndAddress,
		DistanceMeters: leg.Distance.Meters,
		DurationSecs:   leg.Duration.Seconds(),
		Steps:          steps,
	}, nil
}

// TrafficETA returns distance and travel time under current traffic. The
// request is pinned to departure "now" with the best-guess traffic model;
// when the API omits the traffic figure the plain duration stands in.
func (s *googleService) TrafficETA(ctx context.Context, origin, destination string) (*models.TrafficEstimate, error) {
	log.Printf("[DIRECTIONS] Traffic request: origin=%s destination=%s", origin, destination)

	routes, _, err := s.api.Directions(ctx, &maps.DirectionsRequest{
		Origin:        origin,
		Destination:   destination,
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now",
		TrafficModel:  maps.TrafficModelBestGuess,
	})
	if err != nil {
		log.Printf("[ERROR] Directions API traffic request failed: origin=%s destination=%s err=%v", origin, destination, err)
		return nil, fmt.Errorf("traffic request failed: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		log.Printf("[DIRECTIONS] No route found: origin=%s destination=%s", origin, destination)
		return nil, &ErrNoRoute{Origin: origin, Destination: destination}
	}

	leg := routes[0].Legs[0]
	inTraffic := leg.DurationInTraffic
	if inTraffic == 0 {
		inTraffic = leg.Duration
	}

	return &models.TrafficEstimate{
		Origin:            leg.StartAddress,
		Destination:       leg.EndAddress,
		Distance:          leg.Distance.HumanReadable,
		Duration:          formatDuration(leg.Duration),
		DurationInTraffic: formatDuration(inTraffic),
	}, nil
}

// stripHTML drops markup from step instructions, leaving the plain maneuver text
func stripHTML(s string) string {
	out := make([]rune, 0, len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out = append(out, r)
		}
	}
	return strings.TrimSpace(string(out))
}

// formatDuration renders a duration the way the Directions API writes its
// human-readable texts ("1 min", "25 mins", "1 hour 5 mins")
func formatDuration(d time.Duration) string {
	mins := int(d.Round(time.Minute) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	if mins < 60 {
		return fmt.Sprintf("%d min%s", mins, plural(mins))
	}

	hours := mins / 60
	rem := mins % 60
	if rem == 0 {
		return fmt.Sprintf("%d hour%s", hours, plural(hours))
	}
	return fmt.Sprintf("%d hour%s %d min%s", hours, plural(hours), rem, plural(rem))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
