package repository

import (
	"context"

	"tube-catalog/domain/model"
)

// IAPICache persists request/response pairs for the upstream API keyed by
// the canonical request fingerprint, so identical requests survive process
// restarts without spending quota.
type IAPICache interface {
	// FindByFingerprint returns the cached entry, or (nil, nil) on a miss.
	FindByFingerprint(ctx context.Context, fingerprint string) (*model.CacheEntry, error)
	// FindAll returns every cached entry in storage-native order. Used
	// for diagnostics and bulk export only.
	FindAll(ctx context.Context) ([]model.CacheEntry, error)
	// Insert stores a new entry. Returns model.ErrConflict when an entry
	// with the same fingerprint already exists.
	Insert(ctx context.Context, entry *model.CacheEntry) error
	// InsertBatch stores multiple entries in one storage round trip.
	// All-or-nothing on transactional backends.
	InsertBatch(ctx context.Context, entries []model.CacheEntry) error
	// Delete removes an entry by fingerprint. No-op when absent.
	Delete(ctx context.Context, fingerprint string) error
}
