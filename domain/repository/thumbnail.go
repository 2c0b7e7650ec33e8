package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// IThumbnail defines thumbnail persistence
type IThumbnail interface {
	Save(ctx context.Context, thumbnail *model.Thumbnail) error
	SaveAll(ctx context.Context, thumbnails []model.Thumbnail) error
	FindAll(ctx context.Context) ([]model.Thumbnail, error)
	// FindByOwner returns every stored rendition for one entity id.
	FindByOwner(ctx context.Context, ownerID string) ([]model.Thumbnail, error)
	DeleteByOwner(ctx context.Context, ownerID string) error
}
