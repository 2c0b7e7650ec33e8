package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// IPlaylist defines playlist persistence
type IPlaylist interface {
	Save(ctx context.Context, playlist *model.Playlist) error
	SaveAll(ctx context.Context, playlists []model.Playlist) error
	FindAll(ctx context.Context) ([]model.Playlist, error)
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	FindByChannel(ctx context.Context, channelID string) ([]model.Playlist, error)
	DeleteByID(ctx context.Context, id string) error
}
