package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"tube-catalog/domain/model"
	"tube-catalog/infrastructure/logger"
)

// EnsureAPICacheSchema creates the request/response cache table if not exists
func EnsureAPICacheSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS api_response_cache (
        fingerprint TEXT PRIMARY KEY,
        request_json JSONB NOT NULL,
        response_json JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create api_response_cache table: %w", err)
	}

	// Helpful index for age-based purges
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_api_response_cache_created_at ON api_response_cache(created_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_api_response_cache_created_at")
	}

	return nil
}

// APICacheRepository persists cache entries in PostgreSQL. Entries are
// insert-only; the fingerprint PRIMARY KEY arbitrates concurrent writers.

type APICacheRepository struct{ db *sql.DB }

func NewAPICacheRepository(db *sql.DB) *APICacheRepository {
	return &APICacheRepository{db: db}
}

// FindByFingerprint returns the cached entry or (nil, nil) on a miss
func (r *APICacheRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*model.CacheEntry, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT fingerprint, request_json::text, response_json::text, created_at FROM api_response_cache WHERE fingerprint=$1`, fingerprint)
	var e model.CacheEntry
	if err := row.Scan(&e.Fingerprint, &e.RequestJSON, &e.ResponseJSON, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// FindAll returns every entry in storage-native order
func (r *APICacheRepository) FindAll(ctx context.Context) ([]model.CacheEntry, error) {
	if r.db == nil {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT fingerprint, request_json::text, response_json::text, created_at FROM api_response_cache`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CacheEntry
	for rows.Next() {
		var e model.CacheEntry
		if err := rows.Scan(&e.Fingerprint, &e.RequestJSON, &e.ResponseJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const apiCacheInsertQuery = `INSERT INTO api_response_cache(fingerprint, request_json, response_json, created_at)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (fingerprint) DO NOTHING`

// Insert stores a new entry; model.ErrConflict when the fingerprint exists
func (r *APICacheRepository) Insert(ctx context.Context, entry *model.CacheEntry) error {
	if r.db == nil {
		return nil
	}
	res, err := r.db.ExecContext(ctx, apiCacheInsertQuery, entry.Fingerprint, entry.RequestJSON, entry.ResponseJSON, entry.CreatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrConflict
	}
	return nil
}

// InsertBatch stores entries in one transaction, all-or-nothing
func (r *APICacheRepository) InsertBatch(ctx context.Context, entries []model.CacheEntry) error {
	if r.db == nil || len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, apiCacheInsertQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range entries {
		var res sql.Result
		if res, err = stmt.ExecContext(ctx, entries[i].Fingerprint, entries[i].RequestJSON, entries[i].ResponseJSON, entries[i].CreatedAt); err != nil {
			return err
		}
		var n int64
		if n, err = res.RowsAffected(); err != nil {
			return err
		}
		if n == 0 {
			err = model.ErrConflict
			return err
		}
	}
	return tx.Commit()
}

// Delete removes an entry by fingerprint; no-op when absent
func (r *APICacheRepository) Delete(ctx context.Context, fingerprint string) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM api_response_cache WHERE fingerprint=$1`, fingerprint)
	return err
}
