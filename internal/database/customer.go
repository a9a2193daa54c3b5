package database

import (
	"context"
	"database/sql"
	"fmt"

	"field-navigator/internal/models"
)

// CustomerRepository handles customer persistence
type CustomerRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) (*models.Customer, error)
}

type customerRepository struct {
	db *sql.DB
}

func (r *customerRepository) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	query := `SELECT username, street, city, district, state, zip_code, created_at FROM customers WHERE username = ?`

	var c models.Customer
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&c.Username, &c.Street, &c.City, &c.District, &c.State, &c.ZipCode, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	query := `INSERT INTO customers (username, street, city, district, state, zip_code) VALUES (?, ?, ?, ?, ?, ?) RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Username, c.Street, c.City, c.District, c.State, c.ZipCode,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return c, nil
}
