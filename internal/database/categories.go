package database

import (
	"context"
	"fmt"

	"bookyard/internal/models"
)

// SeedCategories inserts reference categories, ignoring ones already present.
// Categories are never modified after seeding.
func (db *DB) SeedCategories(ctx context.Context, categories []models.Category) error {
	query := `INSERT OR IGNORE INTO categories (id, name) VALUES (?, ?)`
	for _, cat := range categories {
		if _, err := db.ExecContext(ctx, query, cat.ID, cat.Name); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", cat.ID, err)
		}
	}
	return nil
}

func (db *DB) GetCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY name`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}
