package database

import (
	"context"
	"database/sql"
	"fmt"

	"field-navigator/internal/models"
)

// DistanceCacheRepository handles distance cache persistence
type DistanceCacheRepository interface {
	Get(ctx context.Context, origin, destination string) (*models.DistanceCacheEntry, error)
	Set(ctx context.Context, entry *models.DistanceCacheEntry) error
	SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error
	Clear(ctx context.Context) error
}

type distanceCacheRepository struct {
	db *sql.DB
}

func (r *distanceCacheRepository) Get(ctx context.Context, origin, destination string) (*models.DistanceCacheEntry, error) {
	query := `
		SELECT origin, destination, distance_meters
		FROM distance_cache
		WHERE origin = ? AND destination = ?
	`

	var entry models.DistanceCacheEntry
	err := r.db.QueryRowContext(ctx, query, origin, destination).Scan(
		&entry.Origin, &entry.Destination, &entry.DistanceMeters,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached distance: %w", err)
	}

	return &entry, nil
}

func (r *distanceCacheRepository) Set(ctx context.Context, entry *models.DistanceCacheEntry) error {
	query := `
		INSERT INTO distance_cache (origin, destination, distance_meters)
		VALUES (?, ?, ?)
		ON CONFLICT(origin, destination)
		DO UPDATE SET distance_meters = excluded.distance_meters, cached_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, entry.Origin, entry.Destination, entry.DistanceMeters)
	if err != nil {
		return fmt.Errorf("failed to set cached distance: %w", err)
	}

	return nil
}

func (r *distanceCacheRepository) SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO distance_cache (origin, destination, distance_meters)
		VALUES (?, ?, ?)
		ON CONFLICT(origin, destination)
		DO UPDATE SET distance_meters = excluded.distance_meters, cached_at = CURRENT_TIMESTAMP
	`

	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query, entry.Origin, entry.Destination, entry.DistanceMeters); err != nil {
			return fmt.Errorf("failed to set cached distance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *distanceCacheRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM distance_cache`

	_, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to clear distance cache: %w", err)
	}

	return nil
}
