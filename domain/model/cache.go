package model

import "time"

// CacheEntry is one memoized request/response pair for the upstream API.
// Entries are insert-only: created on the first miss, never mutated,
// removed only by an explicit delete.
type CacheEntry struct {
	Fingerprint  string    `json:"fingerprint"`
	RequestJSON  string    `json:"request_json"`
	ResponseJSON string    `json:"response_json"`
	CreatedAt    time.Time `json:"created_at"`
}
