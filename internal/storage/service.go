package storage

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/repository"
)

// Service bundles the repositories that share one database.
type Service struct {
	db *DB

	KV        repository.KVRepository
	Catalog   repository.CatalogRepository
	Evolution repository.EvolutionRepository
	Attempts  repository.AttemptRepository

	snapshots *SnapshotStore
}

// NewService creates a new storage service.
func NewService(db *DB, logger *zap.Logger) *Service {
	kv := repository.NewKVRepository(db.Conn())
	return &Service{
		db:        db,
		KV:        kv,
		Catalog:   repository.NewCatalogRepository(db.Conn()),
		Evolution: repository.NewEvolutionRepository(db.Conn()),
		Attempts:  repository.NewAttemptRepository(db.Conn()),
		snapshots: NewSnapshotStore(kv, logger),
	}
}

// Snapshots returns the collection snapshot persister.
func (s *Service) Snapshots() *SnapshotStore {
	return s.snapshots
}

// DB returns the underlying database.
func (s *Service) DB() *DB {
	return s.db
}

// ResetHistory deletes the collection snapshot and catch history together.
func (s *Service) ResetHistory(ctx context.Context) error {
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", SnapshotKey); err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM catch_attempts"); err != nil {
			return fmt.Errorf("failed to delete catch history: %w", err)
		}
		return nil
	})
}
