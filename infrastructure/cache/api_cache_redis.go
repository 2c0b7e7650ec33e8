package cache

import (
	"context"
	"encoding/json"

	"tube-catalog/domain/model"

	"github.com/redis/go-redis/v9"
)

const apiCacheKeyPrefix = "apicache:"

// APICacheRedis implements the API cache store on Redis. SET NX carries
// the same uniqueness guarantee the SQL backends get from their primary
// key, so racing writers still resolve to one stored entry.

type APICacheRedis struct {
	client *redis.Client
}

func NewAPICacheRedis(client *redis.Client) *APICacheRedis {
	return &APICacheRedis{client: client}
}

func (r *APICacheRedis) FindByFingerprint(ctx context.Context, fingerprint string) (*model.CacheEntry, error) {
	if r.client == nil {
		return nil, nil
	}
	raw, err := r.client.Get(ctx, apiCacheKeyPrefix+fingerprint).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e model.CacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *APICacheRedis) FindAll(ctx context.Context) ([]model.CacheEntry, error) {
	if r.client == nil {
		return nil, nil
	}
	var out []model.CacheEntry
	iter := r.client.Scan(ctx, 0, apiCacheKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		var e model.CacheEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APICacheRedis) Insert(ctx context.Context, entry *model.CacheEntry) error {
	if r.client == nil {
		return nil
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, apiCacheKeyPrefix+entry.Fingerprint, raw, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrConflict
	}
	return nil
}

// InsertBatch pipelines per-entry SET NX. Redis has no transaction that
// spans keys here, so the batch is best effort and the first conflict is
// reported after the pipeline completes.
func (r *APICacheRedis) InsertBatch(ctx context.Context, entries []model.CacheEntry) error {
	if r.client == nil || len(entries) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	cmds := make([]*redis.BoolCmd, 0, len(entries))
	for i := range entries {
		raw, err := json.Marshal(&entries[i])
		if err != nil {
			return err
		}
		cmds = append(cmds, pipe.SetNX(ctx, apiCacheKeyPrefix+entries[i].Fingerprint, raw, 0))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	for _, cmd := range cmds {
		if !cmd.Val() {
			return model.ErrConflict
		}
	}
	return nil
}

func (r *APICacheRedis) Delete(ctx context.Context, fingerprint string) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, apiCacheKeyPrefix+fingerprint).Err()
}
