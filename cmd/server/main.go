package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"googlemaps.github.io/maps"

	"field-navigator/internal/config"
	"field-navigator/internal/database"
	"field-navigator/internal/directions"
	"field-navigator/internal/distance"
	"field-navigator/internal/geocoding"
	"field-navigator/internal/handlers"
	"field-navigator/internal/routing"
	"field-navigator/internal/server"
	"field-navigator/internal/weather"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	mapsClient, err := maps.NewClient(maps.WithAPIKey(cfg.GoogleMapsAPIKey))
	if err != nil {
		return fmt.Errorf("failed to create maps client: %w", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	geocoder := geocoding.NewNominatimGeocoder(cfg.NominatimBaseURL)
	source := distance.NewGoogleSource(mapsClient, db.DistanceCache())

	handler := &handlers.Handler{
		DB:         db,
		Optimizer:  routing.NewOptimizer(source),
		Directions: directions.NewService(mapsClient),
		Weather:    weather.NewService(geocoder, ""),
		Geocoder:   geocoder,
	}

	srv := server.New(server.Config{Addr: cfg.ServerAddr}, handler)

	actualAddr, err := srv.Start()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	log.Printf("Field navigator API listening on %s", actualAddr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	log.Printf("Received signal %v, starting graceful shutdown", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
