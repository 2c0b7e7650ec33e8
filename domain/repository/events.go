package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// ICacheEvents receives a notification after every successful cache
// write. Publishing is best effort; the gateway never fails a fetch
// because a notification could not be delivered.
type ICacheEvents interface {
	PublishCacheWrite(ctx context.Context, entry *model.CacheEntry) error
}
