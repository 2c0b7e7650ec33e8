package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tube-catalog/domain/model"
)

// EnsureChannelSchema creates the channels table if not exists
func EnsureChannelSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS channels (
        id TEXT PRIMARY KEY,
        custom_url TEXT UNIQUE,
        title TEXT NOT NULL DEFAULT '',
        description TEXT NOT NULL DEFAULT '',
        country TEXT NOT NULL DEFAULT '',
        published_at TIMESTAMPTZ,
        subscriber_count BIGINT NOT NULL DEFAULT 0,
        video_count BIGINT NOT NULL DEFAULT 0,
        view_count BIGINT NOT NULL DEFAULT 0,
        uploads_playlist TEXT NOT NULL DEFAULT '',
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create channels table: %w", err)
	}
	return nil
}

// ChannelRepository persists channels in PostgreSQL

type ChannelRepository struct{ db *sql.DB }

func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

const channelUpsert = `INSERT INTO channels(id, custom_url, title, description, country, published_at, subscriber_count, video_count, view_count, uploads_playlist, updated_at)
          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
          ON CONFLICT (id) DO UPDATE SET custom_url=EXCLUDED.custom_url, title=EXCLUDED.title, description=EXCLUDED.description, country=EXCLUDED.country, published_at=EXCLUDED.published_at, subscriber_count=EXCLUDED.subscriber_count, video_count=EXCLUDED.video_count, view_count=EXCLUDED.view_count, uploads_playlist=EXCLUDED.uploads_playlist, updated_at=EXCLUDED.updated_at`

// Save upserts one channel by id
func (r *ChannelRepository) Save(ctx context.Context, channel *model.Channel) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, channelUpsert, channelArgs(channel, time.Now().UTC())...)
	return err
}

// SaveAll bulk upserts channels in one transaction
func (r *ChannelRepository) SaveAll(ctx context.Context, channels []model.Channel) error {
	if r.db == nil || len(channels) == 0 {
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
	stmt, err := tx.PrepareContext(ctx, channelUpsert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().UTC()
	for i := range channels {
		if _, err = stmt.ExecContext(ctx, channelArgs(&channels[i], now)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func channelArgs(c *model.Channel, now time.Time) []interface{} {
	var customURL interface{}
	if c.CustomURL != "" {
		customURL = c.CustomURL
	}
	return []interface{}{c.ID, customURL, c.Title, c.Description, c.Country, c.PublishedAt, c.SubscriberCount, c.VideoCount, c.ViewCount, c.UploadsPlaylist, now}
}

const channelColumns = `id, custom_url, title, description, country, published_at, subscriber_count, video_count, view_count, uploads_playlist`

func scanChannel(row interface{ Scan(...interface{}) error }) (*model.Channel, error) {
	var c model.Channel
	var customURL sql.NullString
	var publishedAt sql.NullTime
	if err := row.Scan(&c.ID, &customURL, &c.Title, &c.Description, &c.Country, &publishedAt, &c.SubscriberCount, &c.VideoCount, &c.ViewCount, &c.UploadsPlaylist); err != nil {
		return nil, err
	}
	if customURL.Valid {
		c.CustomURL = customURL.String
	}
	if publishedAt.Valid {
		c.PublishedAt = publishedAt.Time
	}
	return &c, nil
}

func (r *ChannelRepository) FindAll(ctx context.Context) ([]model.Channel, error) {
	if r.db == nil {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+channelColumns+` FROM channels`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetByID returns (nil, nil) when the channel is not stored
func (r *ChannelRepository) GetByID(ctx context.Context, id string) (*model.Channel, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE id=$1`, id)
	c, err := scanChannel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// GetByCustomURL looks a channel up by handle
func (r *ChannelRepository) GetByCustomURL(ctx context.Context, customURL string) (*model.Channel, error) {
	if r.db == nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE custom_url=$1`, customURL)
	c, err := scanChannel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// DeleteByID is idempotent
func (r *ChannelRepository) DeleteByID(ctx context.Context, id string) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id=$1`, id)
	return err
}
