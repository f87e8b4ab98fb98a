package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// CatalogRepository persists the catalog list in fetch order.
type CatalogRepository interface {
	// ReplaceAll swaps the stored catalog for items.
	ReplaceAll(ctx context.Context, items []models.CatalogItem) error

	// List returns the stored catalog in its original order.
	List(ctx context.Context) ([]models.CatalogItem, error)

	// Count returns the number of stored items.
	Count(ctx context.Context) (int, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ReplaceAll(ctx context.Context, items []models.CatalogItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // nil after Commit
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog (id, name, image, species_url, position, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, image = excluded.image, species_url = excluded.species_url
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	now := time.Now().UTC()
	for i, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ID, item.Name, item.Image, item.SpeciesURL, i, now); err != nil {
			return fmt.Errorf("failed to insert catalog item %d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *catalogRepository) List(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, image, species_url FROM catalog ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []models.CatalogItem{}
	for rows.Next() {
		var item models.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Image, &item.SpeciesURL); err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog: %w", err)
	}
	return items, nil
}

func (r *catalogRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	return n, nil
}
