package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tube-catalog/domain/model"
)

// EnsureVideoSchema creates the videos table if not exists. Descriptive
// fields are stored as JSONB so the row does not need a migration every
// time the upstream payload grows a field.
func EnsureVideoSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS videos (
        id TEXT PRIMARY KEY,
        channel_id TEXT NOT NULL DEFAULT '',
        data JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create videos table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_videos_channel_id ON videos(channel_id)`); err != nil {
		return fmt.Errorf("create idx_videos_channel_id: %w", err)
	}
	return nil
}

// VideoRepository persists videos in PostgreSQL as JSONB rows

type VideoRepository struct{ db *sql.DB }

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoUpsert = `INSERT INTO videos(id, channel_id, data, updated_at)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (id) DO UPDATE SET channel_id=EXCLUDED.channel_id, data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`

func (r *VideoRepository) Save(ctx context.Context, video *model.Video) error {
	if r.db == nil {
		return nil
	}
	raw, err := json.Marshal(video)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, videoUpsert, video.ID, video.ChannelID, raw, time.Now().UTC())
	return err
}

func (r *VideoRepository) SaveAll(ctx context.Context, videos []model.Video) error {
	if r.db == nil || len(videos) == 0 {
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
	stmt, err := tx.PrepareContext(ctx, videoUpsert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().UTC()
	for i := range videos {
		var raw []byte
		if raw, err = json.Marshal(&videos[i]); err != nil {
			return err
		}
		if _, err = stmt.ExecContext(ctx, videos[i].ID, videos[i].ChannelID, raw, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *VideoRepository) FindAll(ctx context.Context) ([]model.Video, error) {
	if r.db == nil {
		return nil, nil
	}
	return r.queryVideos(ctx, `SELECT data FROM videos`)
}

func (r *VideoRepository) FindByChannel(ctx context.Context, channelID string) ([]model.Video, error) {
	if r.db == nil {
		return nil, nil
	}
	return r.queryVideos(ctx, `SELECT data FROM videos WHERE channel_id=$1`, channelID)
}

func (r *VideoRepository) queryVideos(ctx context.Context, q string, args ...interface{}) ([]model.Video, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Video
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v model.Video
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VideoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT data FROM videos WHERE id=$1`, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var v model.Video
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepository) DeleteByID(ctx context.Context, id string) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id=$1`, id)
	return err
}
