package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// IVideoSearchRequest keeps a log of search requests issued by users.
type IVideoSearchRequest interface {
	Save(ctx context.Context, req *model.VideoSearchRequest) error
	FindAll(ctx context.Context) ([]model.VideoSearchRequest, error)
	GetByID(ctx context.Context, id string) (*model.VideoSearchRequest, error)
	DeleteByID(ctx context.Context, id string) error
}
