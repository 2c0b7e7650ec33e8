package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// IChannel defines channel persistence
type IChannel interface {
	// Save upserts a single channel by id.
	Save(ctx context.Context, channel *model.Channel) error
	// SaveAll upserts many channels in one round trip.
	SaveAll(ctx context.Context, channels []model.Channel) error
	FindAll(ctx context.Context) ([]model.Channel, error)
	// GetByID returns (nil, nil) when the channel is not stored.
	GetByID(ctx context.Context, id string) (*model.Channel, error)
	// GetByCustomURL looks a channel up by its handle.
	GetByCustomURL(ctx context.Context, customURL string) (*model.Channel, error)
	// DeleteByID is idempotent; deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error
}
