package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/go-querystring/query"
)

// CacheRequest is the canonical form of one outbound API call. Two
// semantically identical requests must produce the same fingerprint, so
// id lists are sorted and de-duplicated and handles are normalized before
// the request is encoded.
type CacheRequest struct {
	Method string   `url:"method" json:"method"`
	Kind   string   `url:"kind" json:"kind"`
	IDs    []string `url:"id,omitempty,comma" json:"ids,omitempty"`
	Handle string   `url:"handle,omitempty" json:"handle,omitempty"`
}

// NewIDRequest builds a canonical request for a set of ids.
func NewIDRequest(method, kind string, ids ...string) CacheRequest {
	return CacheRequest{Method: method, Kind: kind, IDs: NormalizeIDs(ids)}
}

// NewHandleRequest builds a canonical request for a handle lookup.
func NewHandleRequest(method, kind, handle string) CacheRequest {
	return CacheRequest{Method: method, Kind: kind, Handle: NormalizeHandle(handle)}
}

// NormalizeIDs sorts and de-duplicates an id list so that incidental
// ordering differences from the caller do not defeat the cache.
func NormalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NormalizeHandle case-folds a handle and strips scheme, host and the
// leading @ so that equivalent spellings share one cache entry.
func NormalizeHandle(handle string) string {
	h := strings.TrimSpace(strings.ToLower(handle))
	for _, prefix := range []string{"https://", "http://", "www.", "youtube.com/", "@"} {
		h = strings.TrimPrefix(h, prefix)
	}
	return strings.TrimSuffix(h, "/")
}

// Fingerprint returns the sha256 hex digest of the sorted query-string
// encoding of the request.
func (r CacheRequest) Fingerprint() string {
	v, err := query.Values(r)
	if err != nil {
		// Only reachable with a broken struct tag; fall back to JSON.
		raw, _ := json.Marshal(r)
		sum := sha256.Sum256(raw)
		return hex.EncodeToString(sum[:])
	}
	sum := sha256.Sum256([]byte(v.Encode()))
	return hex.EncodeToString(sum[:])
}

// JSON renders the canonical request for the cache's request column.
func (r CacheRequest) JSON() string {
	raw, _ := json.Marshal(r)
	return string(raw)
}
