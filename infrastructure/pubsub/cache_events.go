package pubsub

import (
	"context"
	"encoding/json"

	"tube-catalog/domain/model"
	"tube-catalog/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// NewPubSub connects the Pub/Sub client used for cache-write events.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CacheEventPublisher announces new cache entries on a Pub/Sub topic so
// other consumers can warm their own views. Publishing is best effort; a
// nil client disables it.
type CacheEventPublisher struct {
	client *pubsub.Client
	topic  string
}

func NewCacheEventPublisher(client *pubsub.Client, topic string) *CacheEventPublisher {
	return &CacheEventPublisher{client: client, topic: topic}
}

func (p *CacheEventPublisher) PublishCacheWrite(ctx context.Context, entry *model.CacheEntry) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]interface{}{
		"fingerprint": entry.Fingerprint,
		"created_at":  entry.CreatedAt,
	})
	if err != nil {
		return err
	}

	topic := p.client.Topic(p.topic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topic).Info("Topic doesn't exist - creating it")
		if _, err = p.client.CreateTopic(ctx, p.topic); err != nil {
			return err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while publishing cache event")
		return err
	}
	logger.GetLogger().WithField("serverId", serverID).Debug("Cache event published")
	return nil
}
