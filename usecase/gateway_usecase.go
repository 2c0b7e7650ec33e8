package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tube-catalog/domain/model"
	"tube-catalog/domain/repository"
	"tube-catalog/infrastructure/logger"
	"tube-catalog/infrastructure/utils"
)

// IGatewayUseCase is the cached fetch surface over the upstream platform.
// Every fetch consults the persistent cache first; live responses are
// written back so identical requests survive process restarts without
// spending upstream quota.
type IGatewayUseCase interface {
	// GetByID returns (nil, nil) when the id does not exist upstream.
	GetByID(ctx context.Context, kind model.ResourceKind, id string) (*model.Resource, error)
	// GetByIDs omits missing ids from the result. An empty id list
	// short-circuits without a live call.
	GetByIDs(ctx context.Context, kind model.ResourceKind, ids []string) ([]model.Resource, error)
	// GetByHandle resolves a normalized handle; (nil, nil) when absent.
	GetByHandle(ctx context.Context, kind model.ResourceKind, handle string) (*model.Resource, error)
	// SyncChannel fetches a channel and persists it with its thumbnails.
	SyncChannel(ctx context.Context, channelID string) (*model.Channel, error)
	// SyncVideos fetches a batch of videos and persists them with their
	// thumbnails, returning how many were stored.
	SyncVideos(ctx context.Context, ids []string) (int, error)
	// RecordSearch stamps and logs one user search request.
	RecordSearch(ctx context.Context, req *model.VideoSearchRequest) error
}

// GatewayUseCase implements the cached gateway over the platform client
type GatewayUseCase struct {
	platform   repository.IPlatform
	cache      repository.IAPICache
	channels   repository.IChannel
	videos     repository.IVideo
	playlists  repository.IPlaylist
	thumbnails repository.IThumbnail
	searches   repository.IVideoSearchRequest
	events     []repository.ICacheEvents
	timeout    time.Duration
}

// NewGatewayUseCase creates a gateway with the platform client and cache
// store. Domain repositories and event sinks are optional and attached
// through the With* methods.
func NewGatewayUseCase(platform repository.IPlatform, cache repository.IAPICache) *GatewayUseCase {
	return &GatewayUseCase{platform: platform, cache: cache, timeout: 30 * time.Second}
}

// WithRepositories attaches the domain repositories used by the sync operations (fluent)
func (u *GatewayUseCase) WithRepositories(channels repository.IChannel, videos repository.IVideo, playlists repository.IPlaylist, thumbnails repository.IThumbnail, searches repository.IVideoSearchRequest) *GatewayUseCase {
	u.channels = channels
	u.videos = videos
	u.playlists = playlists
	u.thumbnails = thumbnails
	u.searches = searches
	return u
}

// WithEvents attaches best-effort cache-write event sinks (fluent)
func (u *GatewayUseCase) WithEvents(sinks ...repository.ICacheEvents) *GatewayUseCase {
	u.events = append(u.events, sinks...)
	return u
}

// WithTimeout overrides the per-operation deadline (fluent)
func (u *GatewayUseCase) WithTimeout(d time.Duration) *GatewayUseCase {
	u.timeout = d
	return u
}

func (u *GatewayUseCase) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, u.timeout)
}

func (u *GatewayUseCase) GetByID(ctx context.Context, kind model.ResourceKind, id string) (*model.Resource, error) {
	ctx, cancel := u.opContext(ctx)
	defer cancel()

	req := utils.NewIDRequest("get", string(kind), id)
	cached, err := u.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		var res model.Resource
		if err := json.Unmarshal([]byte(cached.ResponseJSON), &res); err != nil {
			return nil, fmt.Errorf("decode cached response: %w", err)
		}
		return &res, nil
	}

	res, err := u.platform.GetOne(ctx, kind, id)
	if errors.Is(err, model.ErrNotFound) {
		// Negative results are not cached.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := u.store(ctx, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (u *GatewayUseCase) GetByIDs(ctx context.Context, kind model.ResourceKind, ids []string) ([]model.Resource, error) {
	normalized := utils.NormalizeIDs(ids)
	if len(normalized) == 0 {
		return []model.Resource{}, nil
	}

	ctx, cancel := u.opContext(ctx)
	defer cancel()

	req := utils.NewIDRequest("list", string(kind), normalized...)
	cached, err := u.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		var resources []model.Resource
		if err := json.Unmarshal([]byte(cached.ResponseJSON), &resources); err != nil {
			return nil, fmt.Errorf("decode cached response: %w", err)
		}
		return resources, nil
	}

	resources, err := u.platform.GetMany(ctx, kind, normalized)
	if err != nil {
		return nil, err
	}
	// A partial result is a normal outcome and is cached as-is.
	if err := u.store(ctx, req, resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (u *GatewayUseCase) GetByHandle(ctx context.Context, kind model.ResourceKind, handle string) (*model.Resource, error) {
	ctx, cancel := u.opContext(ctx)
	defer cancel()

	req := utils.NewHandleRequest("get", string(kind), handle)
	cached, err := u.lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		var res model.Resource
		if err := json.Unmarshal([]byte(cached.ResponseJSON), &res); err != nil {
			return nil, fmt.Errorf("decode cached response: %w", err)
		}
		return &res, nil
	}

	res, err := u.platform.GetByHandle(ctx, kind, req.Handle)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := u.store(ctx, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (u *GatewayUseCase) lookup(ctx context.Context, req utils.CacheRequest) (*model.CacheEntry, error) {
	entry, err := u.cache.FindByFingerprint(ctx, req.Fingerprint())
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	return entry, nil
}

// store writes the live response back to the cache. A duplicate
// fingerprint means another caller won the same miss; that race is
// benign and the freshly fetched payload is still returned.
func (u *GatewayUseCase) store(ctx context.Context, req utils.CacheRequest, response interface{}) error {
	raw, err := json.Marshal(response)
	if err != nil {
		return err
	}
	entry := &model.CacheEntry{
		Fingerprint:  req.Fingerprint(),
		RequestJSON:  req.JSON(),
		ResponseJSON: string(raw),
		CreatedAt:    utils.GetCurrentTime(),
	}
	if err := u.cache.Insert(ctx, entry); err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.GetLogger().WithField("fingerprint", entry.Fingerprint).Debug("Lost cache-write race; entry already present")
			return nil
		}
		return fmt.Errorf("cache insert: %w", err)
	}
	for _, sink := range u.events {
		if err := sink.PublishCacheWrite(ctx, entry); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Cache event publish failed")
		}
	}
	return nil
}

// SyncChannel fetches a channel through the cache and persists it
func (u *GatewayUseCase) SyncChannel(ctx context.Context, channelID string) (*model.Channel, error) {
	res, err := u.GetByID(ctx, model.KindChannel, channelID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	channel, err := res.Channel()
	if err != nil {
		return nil, err
	}
	if u.channels != nil {
		if err := u.channels.Save(ctx, channel); err != nil {
			return nil, err
		}
	}
	if u.thumbnails != nil && len(res.Thumbnails) > 0 {
		if err := u.thumbnails.SaveAll(ctx, res.Thumbnails); err != nil {
			return nil, err
		}
	}
	return channel, nil
}

// SyncVideos fetches videos through the cache and persists them
func (u *GatewayUseCase) SyncVideos(ctx context.Context, ids []string) (int, error) {
	resources, err := u.GetByIDs(ctx, model.KindVideo, ids)
	if err != nil {
		return 0, err
	}
	if len(resources) == 0 {
		return 0, nil
	}
	videos := make([]model.Video, 0, len(resources))
	var thumbnails []model.Thumbnail
	for i := range resources {
		v, err := resources[i].Video()
		if err != nil {
			return 0, err
		}
		videos = append(videos, *v)
		thumbnails = append(thumbnails, resources[i].Thumbnails...)
	}
	if u.videos != nil {
		if err := u.videos.SaveAll(ctx, videos); err != nil {
			return 0, err
		}
	}
	if u.thumbnails != nil && len(thumbnails) > 0 {
		if err := u.thumbnails.SaveAll(ctx, thumbnails); err != nil {
			return 0, err
		}
	}
	return len(videos), nil
}

// RecordSearch stamps the request and appends it to the search log
func (u *GatewayUseCase) RecordSearch(ctx context.Context, req *model.VideoSearchRequest) error {
	if u.searches == nil {
		return nil
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = utils.GetCurrentTime()
	}
	if req.ID == "" {
		sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", req.Query, req.Kind, req.CreatedAt.UnixNano())))
		req.ID = hex.EncodeToString(sum[:16])
	}
	return u.searches.Save(ctx, req)
}
