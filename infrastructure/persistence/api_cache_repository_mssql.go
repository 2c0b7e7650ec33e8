package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"tube-catalog/domain/model"
)

// EnsureAPICacheSchemaMSSQL creates the cache table on MSSQL if not exists
func EnsureAPICacheSchemaMSSQL(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.api_response_cache') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.api_response_cache (
        fingerprint NVARCHAR(128) NOT NULL PRIMARY KEY,
        request_json NVARCHAR(MAX) NOT NULL,
        response_json NVARCHAR(MAX) NOT NULL,
        created_at DATETIMEOFFSET NOT NULL
    );
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create api_response_cache table (mssql): %w", err)
	}
	return nil
}

// APICacheRepositoryMSSQL implements the cache store on SQL Server
type APICacheRepositoryMSSQL struct {
	db *sql.DB
}

func NewAPICacheRepositoryMSSQL(db *sql.DB) *APICacheRepositoryMSSQL {
	return &APICacheRepositoryMSSQL{db: db}
}

func (r *APICacheRepositoryMSSQL) FindByFingerprint(ctx context.Context, fingerprint string) (*model.CacheEntry, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT fingerprint, request_json, response_json, created_at FROM dbo.api_response_cache WHERE fingerprint=@p1`, fingerprint)
	var e model.CacheEntry
	if err := row.Scan(&e.Fingerprint, &e.RequestJSON, &e.ResponseJSON, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *APICacheRepositoryMSSQL) FindAll(ctx context.Context) ([]model.CacheEntry, error) {
	if r.db == nil {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT fingerprint, request_json, response_json, created_at FROM dbo.api_response_cache`)
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

func (r *APICacheRepositoryMSSQL) Insert(ctx context.Context, entry *model.CacheEntry) error {
	if r.db == nil {
		return nil
	}
	q := `INSERT INTO dbo.api_response_cache (fingerprint, request_json, response_json, created_at)
SELECT @p1, @p2, @p3, @p4
WHERE NOT EXISTS (SELECT 1 FROM dbo.api_response_cache WHERE fingerprint=@p1)`
	res, err := r.db.ExecContext(ctx, q, entry.Fingerprint, entry.RequestJSON, entry.ResponseJSON, entry.CreatedAt)
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

func (r *APICacheRepositoryMSSQL) InsertBatch(ctx context.Context, entries []model.CacheEntry) error {
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
	q := `INSERT INTO dbo.api_response_cache (fingerprint, request_json, response_json, created_at)
SELECT @p1, @p2, @p3, @p4
WHERE NOT EXISTS (SELECT 1 FROM dbo.api_response_cache WHERE fingerprint=@p1)`
	for i := range entries {
		var res sql.Result
		if res, err = tx.ExecContext(ctx, q, entries[i].Fingerprint, entries[i].RequestJSON, entries[i].ResponseJSON, entries[i].CreatedAt); err != nil {
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

func (r *APICacheRepositoryMSSQL) Delete(ctx context.Context, fingerprint string) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM dbo.api_response_cache WHERE fingerprint=@p1`, fingerprint)
	return err
}
