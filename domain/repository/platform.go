package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// IPlatform is the upstream video-platform client. The real client is
// rate-limited and quota-metered, which is why callers go through the
// gateway cache instead of hitting it directly.
type IPlatform interface {
	// GetOne fetches a single resource by its external id. Returns
	// model.ErrNotFound when the id does not exist upstream.
	GetOne(ctx context.Context, kind model.ResourceKind, id string) (*model.Resource, error)
	// GetMany fetches a batch of resources. Missing ids are simply
	// omitted from the result; that is not an error.
	GetMany(ctx context.Context, kind model.ResourceKind, ids []string) ([]model.Resource, error)
	// GetByHandle fetches a resource by its handle/custom URL. Returns
	// model.ErrNotFound when no resource owns the handle.
	GetByHandle(ctx context.Context, kind model.ResourceKind, handle string) (*model.Resource, error)
}
