package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tube-catalog/domain/model"
)

// EnsurePlaylistSchema creates the playlists table if not exists
func EnsurePlaylistSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS playlists (
        id TEXT PRIMARY KEY,
        channel_id TEXT NOT NULL DEFAULT '',
        data JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create playlists table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_playlists_channel_id ON playlists(channel_id)`); err != nil {
		return fmt.Errorf("create idx_playlists_channel_id: %w", err)
	}
	return nil
}

// PlaylistRepository persists playlists in PostgreSQL as JSONB rows

type PlaylistRepository struct{ db *sql.DB }

func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistUpsert = `INSERT INTO playlists(id, channel_id, data, updated_at)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (id) DO UPDATE SET channel_id=EXCLUDED.channel_id, data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`

func (r *PlaylistRepository) Save(ctx context.Context, playlist *model.Playlist) error {
	if r.db == nil {
		return nil
	}
	raw, err := json.Marshal(playlist)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, playlistUpsert, playlist.ID, playlist.ChannelID, raw, time.Now().UTC())
	return err
}

func (r *PlaylistRepository) SaveAll(ctx context.Context, playlists []model.Playlist) error {
	if r.db == nil || len(playlists) == 0 {
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
	stmt, err := tx.PrepareContext(ctx, playlistUpsert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().UTC()
	for i := range playlists {
		var raw []byte
		if raw, err = json.Marshal(&playlists[i]); err != nil {
			return err
		}
		if _, err = stmt.ExecContext(ctx, playlists[i].ID, playlists[i].ChannelID, raw, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PlaylistRepository) FindAll(ctx context.Context) ([]model.Playlist, error) {
	if r.db == nil {
		return nil, nil
	}
	return r.queryPlaylists(ctx, `SELECT data FROM playlists`)
}

func (r *PlaylistRepository) FindByChannel(ctx context.Context, channelID string) ([]model.Playlist, error) {
	if r.db == nil {
		return nil, nil
	}
	return r.queryPlaylists(ctx, `SELECT data FROM playlists WHERE channel_id=$1`, channelID)
}

func (r *PlaylistRepository) queryPlaylists(ctx context.Context, q string, args ...interface{}) ([]model.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Playlist
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p model.Playlist
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT data FROM playlists WHERE id=$1`, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var p model.Playlist
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlaylistRepository) DeleteByID(ctx context.Context, id string) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id=$1`, id)
	return err
}
