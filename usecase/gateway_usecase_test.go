package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tube-catalog/domain/model"
	"tube-catalog/usecase"
)

// Mock implementations
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) GetOne(ctx context.Context, kind model.ResourceKind, id string) (*model.Resource, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockPlatform) GetMany(ctx context.Context, kind model.ResourceKind, ids []string) ([]model.Resource, error) {
	args := m.Called(ctx, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Resource), args.Error(1)
}

func (m *MockPlatform) GetByHandle(ctx context.Context, kind model.ResourceKind, handle string) (*model.Resource, error) {
	args := m.Called(ctx, kind, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

type MockCacheEvents struct {
	mock.Mock
}

func (m *MockCacheEvents) PublishCacheWrite(ctx context.Context, entry *model.CacheEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// memoryCache is an in-memory cache store for exercising the miss/hit flow.
type memoryCache struct {
	entries   map[string]model.CacheEntry
	insertErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]model.CacheEntry{}}
}

func (c *memoryCache) FindByFingerprint(_ context.Context, fingerprint string) (*model.CacheEntry, error) {
	if e, ok := c.entries[fingerprint]; ok {
		return &e, nil
	}
	return nil, nil
}

func (c *memoryCache) FindAll(_ context.Context) ([]model.CacheEntry, error) {
	out := make([]model.CacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out, nil
}

func (c *memoryCache) Insert(_ context.Context, entry *model.CacheEntry) error {
	if c.insertErr != nil {
		return c.insertErr
	}
	if _, ok := c.entries[entry.Fingerprint]; ok {
		return model.ErrConflict
	}
	c.entries[entry.Fingerprint] = *entry
	return nil
}

func (c *memoryCache) InsertBatch(ctx context.Context, entries []model.CacheEntry) error {
	for i := range entries {
		if err := c.Insert(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *memoryCache) Delete(_ context.Context, fingerprint string) error {
	delete(c.entries, fingerprint)
	return nil
}

func channelResource(id string) *model.Resource {
	data, _ := json.Marshal(model.Channel{ID: id, Title: "Channel " + id})
	return &model.Resource{Kind: model.KindChannel, ID: id, Data: data}
}

func TestGatewayUseCase_GetByID_MissThenHit(t *testing.T) {
	mockPlatform := new(MockPlatform)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache)

	mockPlatform.On("GetOne", mock.Anything, model.KindChannel, "UCabc").
		Return(channelResource("UCabc"), nil).
		Once()

	// First call misses the cache and goes upstream.
	first, err := gateway.GetByID(context.Background(), model.KindChannel, "UCabc")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "UCabc", first.ID)
	assert.Len(t, cache.entries, 1)

	// Second call is served from the cache; the mock allows only one live call.
	second, err := gateway.GetByID(context.Background(), model.KindChannel, "UCabc")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	mockPlatform.AssertExpectations(t)
}

func TestGatewayUseCase_GetByID_NotFoundNotCached(t *testing.T) {
	mockPlatform := new(MockPlatform)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache)

	// Absent upstream ids stay uncached, so every call goes upstream again.
	mockPlatform.On("GetOne", mock.Anything, model.KindChannel, "UCmissing").
		Return(nil, model.ErrNotFound).
		Twice()

	res, err := gateway.GetByID(context.Background(), model.KindChannel, "UCmissing")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, cache.entries)

	res, err = gateway.GetByID(context.Background(), model.KindChannel, "UCmissing")
	require.NoError(t, err)
	assert.Nil(t, res)

	mockPlatform.AssertExpectations(t)
}

func TestGatewayUseCase_GetByID_TransportErrorNotCached(t *testing.T) {
	mockPlatform := new(MockPlatform)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache)

	transportErr := &model.TransportError{Op: "channels.list", StatusCode: 503}
	mockPlatform.On("GetOne", mock.Anything, model.KindChannel, "UCabc").
		Return(nil, transportErr).
		Once()

	_, err := gateway.GetByID(context.Background(), model.KindChannel, "UCabc")
	require.Error(t, err)
	assert.Empty(t, cache.entries)

	mockPlatform.AssertExpectations(t)
}

func TestGatewayUseCase_GetByID_ConflictIsBenign(t *testing.T) {
	mockPlatform := new(MockPlatform)
	cache := newMemoryCache()
	cache.insertErr = model.ErrConflict
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache)

	mockPlatform.On("GetOne", mock.Anything, model.KindChannel, "UCabc").
		Return(channelResource("UCabc"), nil).
		Once()

	// Losing the cache-write race still returns the fetched resource.
	res, err := gateway.GetByID(context.Background(), model.KindChannel, "UCabc")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "UCabc", res.ID)

	mockPlatform.AssertExpectations(t)
}

func TestGatewayUseCase_GetByIDs_EmptyShortCircuits(t *testing.T) {
	mockPlatform := new(MockPlatform)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache)

	// No platform expectations: an empty id list never goes upstream.
	res, err := gateway.GetByIDs(context.Background(), model.KindVideo, nil)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	res, err = gateway.GetByIDs(context.Background(), model.KindVideo, []string{"", "  "})
	require.NoError(t, err)
	assert.Empty(t, res)

	mockPlatform.AssertExpectations(t)
}

func TestGatewayUseCase_GetByIDs_OrderIndependentCaching(t *testing.T) {
	mockPlatform := new(MockPlatform)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache)

	resources := []model.Resource{*channelResource("UCa"), *channelResource("UCb")}
	mockPlatform.On("GetMany", mock.Anything, model.KindChannel, []string{"UCa", "UCb"}).
		Return(resources, nil).
		Once()

	first, err := gateway.GetByIDs(context.Background(), model.KindChannel, []string{"UCb", "UCa"})
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// Reordered and duplicated ids map to the same fingerprint.
	second, err := gateway.GetByIDs(context.Background(), model.KindChannel, []string{"UCa", "UCb", "UCa"})
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Len(t, cache.entries, 1)

	mockPlatform.AssertExpectations(t)
}

func TestGatewayUseCase_GetByIDs_PartialResultCached(t *testing.T) {
	mockPlatform := new(MockPlatform)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache)

	// Only one of two requested ids exists upstream.
	resources := []model.Resource{*channelResource("UCa")}
	mockPlatform.On("GetMany", mock.Anything, model.KindChannel, []string{"UCa", "UCmissing"}).
		Return(resources, nil).
		Once()

	res, err := gateway.GetByIDs(context.Background(), model.KindChannel, []string{"UCa", "UCmissing"})
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Len(t, cache.entries, 1)

	// The partial result is a hit next time around.
	res, err = gateway.GetByIDs(context.Background(), model.KindChannel, []string{"UCmissing", "UCa"})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	mockPlatform.AssertExpectations(t)
}

func TestGatewayUseCase_GetByHandle_NormalizedHit(t *testing.T) {
	mockPlatform := new(MockPlatform)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache)

	mockPlatform.On("GetByHandle", mock.Anything, model.KindChannel, "somecreator").
		Return(channelResource("UCabc"), nil).
		Once()

	first, err := gateway.GetByHandle(context.Background(), model.KindChannel, "@SomeCreator")
	require.NoError(t, err)
	require.NotNil(t, first)

	// A different spelling of the same handle is a cache hit.
	second, err := gateway.GetByHandle(context.Background(), model.KindChannel, "https://www.youtube.com/@somecreator")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	mockPlatform.AssertExpectations(t)
}

type MockSearchRequests struct {
	mock.Mock
}

func (m *MockSearchRequests) Save(ctx context.Context, req *model.VideoSearchRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockSearchRequests) FindAll(ctx context.Context) ([]model.VideoSearchRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VideoSearchRequest), args.Error(1)
}

func (m *MockSearchRequests) GetByID(ctx context.Context, id string) (*model.VideoSearchRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoSearchRequest), args.Error(1)
}

func (m *MockSearchRequests) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestGatewayUseCase_RecordSearch_StampsRequest(t *testing.T) {
	mockPlatform := new(MockPlatform)
	mockSearches := new(MockSearchRequests)
	gateway := usecase.NewGatewayUseCase(mockPlatform, newMemoryCache()).
		WithRepositories(nil, nil, nil, nil, mockSearches)

	mockSearches.On("Save", mock.Anything, mock.AnythingOfType("*model.VideoSearchRequest")).
		Return(nil).
		Once()

	req := &model.VideoSearchRequest{Query: "gophers", Kind: "video"}
	err := gateway.RecordSearch(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, req.CreatedAt.IsZero())
	assert.NotEmpty(t, req.ID)

	mockSearches.AssertExpectations(t)
}

func TestGatewayUseCase_RecordSearch_NoRepositoryIsNoop(t *testing.T) {
	gateway := usecase.NewGatewayUseCase(new(MockPlatform), newMemoryCache())

	err := gateway.RecordSearch(context.Background(), &model.VideoSearchRequest{Query: "gophers"})
	require.NoError(t, err)
}

func TestGatewayUseCase_CacheWriteEventsPublished(t *testing.T) {
	mockPlatform := new(MockPlatform)
	mockEvents := new(MockCacheEvents)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache).WithEvents(mockEvents)

	mockPlatform.On("GetOne", mock.Anything, model.KindChannel, "UCabc").
		Return(channelResource("UCabc"), nil).
		Once()
	mockEvents.On("PublishCacheWrite", mock.Anything, mock.AnythingOfType("*model.CacheEntry")).
		Return(nil).
		Once()

	_, err := gateway.GetByID(context.Background(), model.KindChannel, "UCabc")
	require.NoError(t, err)

	mockPlatform.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestGatewayUseCase_EventFailureDoesNotFailFetch(t *testing.T) {
	mockPlatform := new(MockPlatform)
	mockEvents := new(MockCacheEvents)
	cache := newMemoryCache()
	gateway := usecase.NewGatewayUseCase(mockPlatform, cache).WithEvents(mockEvents)

	mockPlatform.On("GetOne", mock.Anything, model.KindChannel, "UCabc").
		Return(channelResource("UCabc"), nil).
		Once()
	mockEvents.On("PublishCacheWrite", mock.Anything, mock.Anything).
		Return(assert.AnError).
		Once()

	res, err := gateway.GetByID(context.Background(), model.KindChannel, "UCabc")
	require.NoError(t, err)
	require.NotNil(t, res)

	mockPlatform.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}
