package model

import (
	"encoding/json"
	"time"
)

// ResourceKind is the category of external entity being fetched.
type ResourceKind string

const (
	KindChannel  ResourceKind = "channel"
	KindVideo    ResourceKind = "video"
	KindPlaylist ResourceKind = "playlist"
)

// Resource is the opaque envelope returned by the upstream platform: a
// stable external id, an optional handle, and the raw descriptive payload.
// Typed accessors decode Data into the concrete entity.
type Resource struct {
	Kind       ResourceKind    `json:"kind"`
	ID         string          `json:"id"`
	CustomURL  string          `json:"custom_url,omitempty"`
	Data       json.RawMessage `json:"data"`
	Thumbnails []Thumbnail     `json:"thumbnails,omitempty"`
}

// Channel decodes the payload as a channel.
func (r *Resource) Channel() (*Channel, error) {
	var c Channel
	if err := json.Unmarshal(r.Data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Video decodes the payload as a video.
func (r *Resource) Video() (*Video, error) {
	var v Video
	if err := json.Unmarshal(r.Data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Playlist decodes the payload as a playlist.
func (r *Resource) Playlist() (*Playlist, error) {
	var p Playlist
	if err := json.Unmarshal(r.Data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Channel represents a video-platform channel
type Channel struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CustomURL       string    `json:"custom_url"`
	Country         string    `json:"country"`
	PublishedAt     time.Time `json:"published_at"`
	SubscriberCount int64     `json:"subscriber_count"`
	VideoCount      int64     `json:"video_count"`
	ViewCount       int64     `json:"view_count"`
	UploadsPlaylist string    `json:"uploads_playlist"`
}

// Video represents a video on the platform
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"published_at"`
	ChannelID    string    `json:"channel_id"`
	ChannelName  string    `json:"channel_name"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	Duration     string    `json:"duration"`
	Tags         []string  `json:"tags"`
	Category     string    `json:"category"`
}

// Playlist represents a playlist on the platform
type Playlist struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"published_at"`
	ChannelID   string    `json:"channel_id"`
	ItemCount   int64     `json:"item_count"`
	Privacy     string    `json:"privacy"`
}

// Thumbnail is one rendition of an entity's preview image. OwnerID is the
// external id of the channel, video or playlist it belongs to.
type Thumbnail struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	OwnerID string `json:"owner_id" gorm:"size:64;not null;uniqueIndex:idx_thumbnail_owner_size"`
	Size    string `json:"size" gorm:"size:16;not null;uniqueIndex:idx_thumbnail_owner_size"`
	URL     string `json:"url" gorm:"size:512;not null"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}
