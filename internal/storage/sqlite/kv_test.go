package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/vitaena/internal/progress"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "progress.db"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	require.NoError(t, db.Migrate())
	version, err := db.Version()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

func TestProgressKV(t *testing.T) {
	ctx := context.Background()
	kv := NewProgressKV(openTestDB(t))
	defer kv.Close()

	_, ok, err := kv.Get(ctx, "result:numbers:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "result:numbers:1", "incorrect"))
	require.NoError(t, kv.Set(ctx, "result:numbers:1", "correct"))
	require.NoError(t, kv.Set(ctx, "result:numbers:2", "incorrect"))
	require.NoError(t, kv.Set(ctx, "result:numbers-extra:1", "correct"))
	require.NoError(t, kv.Set(ctx, "last:numbers", "2"))

	v, ok, err := kv.Get(ctx, "result:numbers:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "correct", v)

	keys, err := kv.Keys(ctx, "result:numbers:")
	require.NoError(t, err)
	assert.Equal(t, []string{"result:numbers:1", "result:numbers:2"}, keys)

	require.NoError(t, kv.Delete(ctx, keys...))
	keys, err = kv.Keys(ctx, "result:")
	require.NoError(t, err)
	assert.Equal(t, []string{"result:numbers-extra:1"}, keys)
}

func TestStoreOverSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")

	db, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	store := progress.NewStore(NewProgressKV(db), zerolog.Nop(), progress.StoreOptions{})
	require.NoError(t, store.SetResult(ctx, "alphabet", "3", progress.ResultCorrect))
	require.NoError(t, store.SetLastVisited(ctx, "alphabet", "3"))
	require.NoError(t, db.Close())

	db, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())
	store = progress.NewStore(NewProgressKV(db), zerolog.Nop(), progress.StoreOptions{})

	r, ok := store.GetResult(ctx, "alphabet", "3")
	assert.True(t, ok)
	assert.Equal(t, progress.ResultCorrect, r)
	id, ok := store.GetLastVisited(ctx, "alphabet")
	assert.True(t, ok)
	assert.Equal(t, "3", id)
}
