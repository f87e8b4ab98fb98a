package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/ramonehamilton/pokemon-catcher/internal/collection"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/repository"
)

const (
	// SnapshotKey is the kv_store key of the caught collection.
	SnapshotKey = "pokemon-storage-v2"

	snapshotVersion = 2
)

// snapshotRecord is the persisted layout of the collection.
type snapshotRecord struct {
	Version  int                  `json:"version"`
	Caught   []models.CaughtEntry `json:"caught"`
	Checksum string               `json:"checksum"`
}

// SnapshotStore persists the caught collection as one checksummed JSON record.
// Focus pointers are transient and never stored.
type SnapshotStore struct {
	kv     repository.KVRepository
	logger *zap.Logger
}

var _ collection.Persister = (*SnapshotStore)(nil)

// NewSnapshotStore creates a snapshot persister over kv.
func NewSnapshotStore(kv repository.KVRepository, logger *zap.Logger) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{kv: kv, logger: logger.Named("snapshot")}
}

// Load returns the stored collection. Absent, undecodable, wrong-version or
// checksum-mismatched records load as the empty collection.
func (s *SnapshotStore) Load(ctx context.Context) (collection.State, error) {
	raw, found, err := s.kv.Get(ctx, SnapshotKey)
	if err != nil {
		return collection.Empty(), fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !found {
		return collection.Empty(), nil
	}

	var record snapshotRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("discarding undecodable snapshot", zap.Error(err))
		return collection.Empty(), nil
	}
	if record.Version != snapshotVersion {
		s.logger.Warn("discarding snapshot with unknown version", zap.Int("version", record.Version))
		return collection.Empty(), nil
	}

	sum, err := checksum(record.Caught)
	if err != nil || sum != record.Checksum {
		s.logger.Warn("discarding snapshot with bad checksum",
			zap.String("stored", record.Checksum),
			zap.String("computed", sum))
		return collection.Empty(), nil
	}

	return collection.Sanitize(record.Caught), nil
}

// Save writes the collection entries.
func (s *SnapshotStore) Save(ctx context.Context, state collection.State) error {
	caught := state.Entries
	if caught == nil {
		caught = []models.CaughtEntry{}
	}

	sum, err := checksum(caught)
	if err != nil {
		return err
	}

	data, err := json.Marshal(snapshotRecord{
		Version:  snapshotVersion,
		Caught:   caught,
		Checksum: sum,
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.kv.Set(ctx, SnapshotKey, string(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// checksum is the hex BLAKE2b-256 digest of the JSON-encoded entries.
func checksum(entries []models.CaughtEntry) (string, error) {
	if entries == nil {
		entries = []models.CaughtEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode entries for checksum: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
