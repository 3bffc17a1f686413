package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/vitaena/internal/progress"
)

// progressStore is the subset of pgxpool.Pool used by the repository.
type progressStore interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProgressRepository keeps progress keys in the progress_entries table.
type ProgressRepository struct {
	store progressStore
}

// NewProgressRepository wraps a pool (or any compatible querier).
func NewProgressRepository(store progressStore) *ProgressRepository {
	return &ProgressRepository{store: store}
}

const (
	getEntrySQL    = `SELECT value FROM progress_entries WHERE key = $1`
	upsertEntrySQL = `INSERT INTO progress_entries (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteEntriesSQL = `DELETE FROM progress_entries WHERE key = ANY($1)`
	listKeysSQL      = `SELECT key FROM progress_entries WHERE key LIKE $1 ESCAPE '\' ORDER BY key`
)

func (r *ProgressRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.store.QueryRow(ctx, getEntrySQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (r *ProgressRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.store.Exec(ctx, upsertEntrySQL, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *ProgressRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := r.store.Exec(ctx, deleteEntriesSQL, keys); err != nil {
		return fmt.Errorf("delete %d keys: %w", len(keys), err)
	}
	return nil
}

func (r *ProgressRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.store.Query(ctx, listKeysSQL, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("list keys %s: %w", prefix, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect keys %s: %w", prefix, err)
	}
	return keys, nil
}

// Close is a no-op; the pool is owned by the application.
func (r *ProgressRepository) Close() error {
	return nil
}

func likePrefix(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return escaped + "%"
}

var _ progress.KV = (*ProgressRepository)(nil)
