package servicebus

import (
	"context"
	"encoding/json"

	"tube-catalog/domain/model"
	"tube-catalog/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus connects an Azure Service Bus client for environments
// that consume cache events through Service Bus instead of Pub/Sub.
func NewServiceBus(ctx context.Context, namespace string) (*azservicebus.Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	client, err := azservicebus.NewClient(namespace, cred, nil)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CacheEventSender publishes cache-write events to a Service Bus queue.
// A nil client disables it.
type CacheEventSender struct {
	client *azservicebus.Client
	queue  string
}

func NewCacheEventSender(client *azservicebus.Client, queue string) *CacheEventSender {
	return &CacheEventSender{client: client, queue: queue}
}

func (s *CacheEventSender) PublishCacheWrite(ctx context.Context, entry *model.CacheEntry) error {
	if s.client == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]interface{}{
		"fingerprint": entry.Fingerprint,
		"created_at":  entry.CreatedAt,
	})
	if err != nil {
		return err
	}

	sender, err := s.client.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		if err := sender.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
		}
	}(sender, ctx)

	if err := sender.SendMessage(ctx, &azservicebus.Message{Body: payload}, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending cache event.")
		return err
	}
	return nil
}
