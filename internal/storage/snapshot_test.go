package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ramonehamilton/pokemon-catcher/internal/collection"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

func entry(id int, name string, count, stage int) models.CaughtEntry {
	return models.CaughtEntry{
		PokemonRef: models.PokemonRef{ID: id, Name: name, Sprite: models.SpriteURL(id)},
		Count:      count,
		Stage:      stage,
	}
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	snapshots := svc.Snapshots()

	state := collection.State{Entries: []models.CaughtEntry{
		entry(10, "caterpie", 3, 0),
		entry(11, "metapod", 1, 1),
	}}
	require.NoError(t, snapshots.Save(ctx, state))

	loaded, err := snapshots.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(state.Entries, loaded.Entries); diff != "" {
		t.Errorf("loaded entries mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, loaded.LastMutatedID)
}

func TestSnapshotStore_AbsentIsEmpty(t *testing.T) {
	svc := setupTestService(t)

	loaded, err := svc.Snapshots().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestSnapshotStore_RejectsBadRecords(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Snapshots().Save(ctx, collection.State{Entries: []models.CaughtEntry{entry(1, "bulbasaur", 1, 0)}}))
	valid, _, err := svc.KV.Get(ctx, SnapshotKey)
	require.NoError(t, err)

	tests := map[string]string{
		"undecodable":   `{"version":2,"caught":[`,
		"wrong version": `{"version":1,"caught":[],"checksum":""}`,
		"bad checksum":  strings.Replace(valid, `"checksum":"`, `"checksum":"ff`, 1),
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, svc.KV.Set(ctx, SnapshotKey, raw))

			loaded, err := svc.Snapshots().Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, loaded.Len())
		})
	}
}

func TestSnapshotStore_SanitizesOnLoad(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	// Checksums cover whatever was written, so invalid entries survive the
	// integrity check and must be cleaned afterwards.
	dirty := collection.State{Entries: []models.CaughtEntry{
		entry(1, "bulbasaur", 2, -1),
		entry(4, "charmander", 0, 0),
		entry(1, "bulbasaur", 5, 0),
	}}
	require.NoError(t, svc.Snapshots().Save(ctx, dirty))

	loaded, err := svc.Snapshots().Load(ctx)
	require.NoError(t, err)
	want := []models.CaughtEntry{entry(1, "bulbasaur", 2, 0)}
	if diff := cmp.Diff(want, loaded.Entries); diff != "" {
		t.Errorf("sanitized entries mismatch (-want +got):\n%s", diff)
	}
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk I/O error")
}
func (failingKV) Set(context.Context, string, string) error { return errors.New("disk I/O error") }
func (failingKV) Delete(context.Context, string) error      { return nil }

func TestSnapshotStore_ReadErrorIsReturned(t *testing.T) {
	snapshots := NewSnapshotStore(failingKV{}, zaptest.NewLogger(t))

	loaded, err := snapshots.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, loaded.Len())

	assert.Error(t, snapshots.Save(context.Background(), collection.Empty()))
}

func TestStore_WithSnapshotPersistence(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	caterpie := models.PokemonRef{ID: 10, Name: "caterpie", Sprite: models.SpriteURL(10)}

	store, err := collection.Open(ctx, svc.Snapshots())
	require.NoError(t, err)
	require.NoError(t, store.AddOne(ctx, caterpie, 0))
	require.NoError(t, store.AddOne(ctx, caterpie, 0))

	reopened, err := collection.Open(ctx, svc.Snapshots())
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.State().Count(10))
}

func TestService_ResetHistory(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Snapshots().Save(ctx, collection.State{Entries: []models.CaughtEntry{entry(1, "bulbasaur", 1, 0)}}))
	require.NoError(t, svc.Attempts.Record(ctx, &models.CatchAttempt{ID: "x", PokemonID: 1, Name: "bulbasaur"}))

	require.NoError(t, svc.ResetHistory(ctx))

	_, found, err := svc.KV.Get(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.False(t, found)

	recent, err := svc.Attempts.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
