package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// IVideo defines video persistence
type IVideo interface {
	Save(ctx context.Context, video *model.Video) error
	SaveAll(ctx context.Context, videos []model.Video) error
	FindAll(ctx context.Context) ([]model.Video, error)
	GetByID(ctx context.Context, id string) (*model.Video, error)
	// FindByChannel returns the stored videos of one channel.
	FindByChannel(ctx context.Context, channelID string) ([]model.Video, error)
	DeleteByID(ctx context.Context, id string) error
}
