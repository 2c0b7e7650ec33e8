package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tube-catalog/domain/model"
	"tube-catalog/domain/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client adapts the YouTube Data API v3 to the platform interface the
// gateway consumes.
type Client struct {
	service *youtube.Service
}

// Config represents YouTube API configuration
type Config struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURL  string `json:"redirect_url"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	APIKey       string `json:"api_key"`
}

// NewYouTubeClient creates a platform client. API-key mode is read-only;
// OAuth mode is used when tokens are present.
func NewYouTubeClient(ctx context.Context, config *Config) (repository.IPlatform, error) {
	if (config.AccessToken == "" || config.RefreshToken == "") && config.APIKey != "" {
		service, err := youtube.NewService(ctx, option.WithAPIKey(config.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
		}
		return &Client{service: service}, nil
	}

	oauth2Config := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       []string{youtube.YoutubeReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-1 * time.Minute), // Force refresh on first use
	}
	httpClient := oauth2Config.Client(ctx, token)
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// GetOne fetches one resource by id
func (c *Client) GetOne(ctx context.Context, kind model.ResourceKind, id string) (*model.Resource, error) {
	resources, err := c.GetMany(ctx, kind, []string{id})
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, model.ErrNotFound
	}
	return &resources[0], nil
}

// GetMany fetches a batch of resources; missing ids are omitted
func (c *Client) GetMany(ctx context.Context, kind model.ResourceKind, ids []string) ([]model.Resource, error) {
	switch kind {
	case model.KindChannel:
		return c.listChannels(ctx, func(call *youtube.ChannelsListCall) *youtube.ChannelsListCall {
			return call.Id(ids...)
		})
	case model.KindVideo:
		return c.listVideos(ctx, ids)
	case model.KindPlaylist:
		return c.listPlaylists(ctx, ids)
	default:
		return nil, fmt.Errorf("unsupported resource kind %q", kind)
	}
}

// GetByHandle fetches a channel by its handle. Only channels own handles
// on this platform.
func (c *Client) GetByHandle(ctx context.Context, kind model.ResourceKind, handle string) (*model.Resource, error) {
	if kind != model.KindChannel {
		return nil, fmt.Errorf("handle lookup not supported for kind %q", kind)
	}
	resources, err := c.listChannels(ctx, func(call *youtube.ChannelsListCall) *youtube.ChannelsListCall {
		return call.ForHandle(handle)
	})
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, model.ErrNotFound
	}
	return &resources[0], nil
}

func (c *Client) listChannels(ctx context.Context, shape func(*youtube.ChannelsListCall) *youtube.ChannelsListCall) ([]model.Resource, error) {
	call := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"})
	resp, err := shape(call).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("channels.list", err)
	}
	out := make([]model.Resource, 0, len(resp.Items))
	for _, item := range resp.Items {
		ch := model.Channel{
			ID:          item.Id,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			CustomURL:   item.Snippet.CustomUrl,
			Country:     item.Snippet.Country,
			PublishedAt: parseTime(item.Snippet.PublishedAt),
		}
		if item.Statistics != nil {
			ch.SubscriberCount = int64(item.Statistics.SubscriberCount)
			ch.VideoCount = int64(item.Statistics.VideoCount)
			ch.ViewCount = int64(item.Statistics.ViewCount)
		}
		if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
			ch.UploadsPlaylist = item.ContentDetails.RelatedPlaylists.Uploads
		}
		res, err := wrapResource(model.KindChannel, ch.ID, ch.CustomURL, ch)
		if err != nil {
			return nil, err
		}
		res.Thumbnails = collectThumbnails(ch.ID, item.Snippet.Thumbnails)
		out = append(out, *res)
	}
	return out, nil
}

func (c *Client) listVideos(ctx context.Context, ids []string) ([]model.Resource, error) {
	call := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).Id(ids...)
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("videos.list", err)
	}
	out := make([]model.Resource, 0, len(resp.Items))
	for _, item := range resp.Items {
		v := model.Video{
			ID:          item.Id,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: parseTime(item.Snippet.PublishedAt),
			ChannelID:   item.Snippet.ChannelId,
			ChannelName: item.Snippet.ChannelTitle,
			Tags:        item.Snippet.Tags,
			Category:    item.Snippet.CategoryId,
		}
		if item.Statistics != nil {
			v.ViewCount = int64(item.Statistics.ViewCount)
			v.LikeCount = int64(item.Statistics.LikeCount)
			v.CommentCount = int64(item.Statistics.CommentCount)
		}
		if item.ContentDetails != nil {
			v.Duration = item.ContentDetails.Duration
		}
		res, err := wrapResource(model.KindVideo, v.ID, "", v)
		if err != nil {
			return nil, err
		}
		res.Thumbnails = collectThumbnails(v.ID, item.Snippet.Thumbnails)
		out = append(out, *res)
	}
	return out, nil
}

func (c *Client) listPlaylists(ctx context.Context, ids []string) ([]model.Resource, error) {
	call := c.service.Playlists.List([]string{"snippet", "contentDetails", "status"}).Id(ids...)
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("playlists.list", err)
	}
	out := make([]model.Resource, 0, len(resp.Items))
	for _, item := range resp.Items {
		p := model.Playlist{
			ID:          item.Id,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: parseTime(item.Snippet.PublishedAt),
			ChannelID:   item.Snippet.ChannelId,
		}
		if item.ContentDetails != nil {
			p.ItemCount = item.ContentDetails.ItemCount
		}
		if item.Status != nil {
			p.Privacy = item.Status.PrivacyStatus
		}
		res, err := wrapResource(model.KindPlaylist, p.ID, "", p)
		if err != nil {
			return nil, err
		}
		res.Thumbnails = collectThumbnails(p.ID, item.Snippet.Thumbnails)
		out = append(out, *res)
	}
	return out, nil
}

func wrapResource(kind model.ResourceKind, id, customURL string, entity interface{}) (*model.Resource, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	return &model.Resource{Kind: kind, ID: id, CustomURL: customURL, Data: raw}, nil
}

func collectThumbnails(ownerID string, details *youtube.ThumbnailDetails) []model.Thumbnail {
	if details == nil {
		return nil
	}
	var out []model.Thumbnail
	add := func(size string, t *youtube.Thumbnail) {
		if t == nil {
			return
		}
		out = append(out, model.Thumbnail{
			OwnerID: ownerID,
			Size:    size,
			URL:     t.Url,
			Width:   int(t.Width),
			Height:  int(t.Height),
		})
	}
	add("default", details.Default)
	add("medium", details.Medium)
	add("high", details.High)
	return out
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// wrapAPIError maps transport failures into the domain taxonomy. A 404
// from the API means the id space itself was wrong, which callers treat
// as not found rather than a failure.
func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 404 {
			return model.ErrNotFound
		}
		return &model.TransportError{Op: op, StatusCode: apiErr.Code, Err: err}
	}
	return &model.TransportError{Op: op, Err: err}
}
