package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/intellidoc/backend/pkg/logger"
)

const channelPrefix = "notifications:"

// Channel returns the pub/sub channel name for an owner.
func Channel(ownerID string) string {
	return channelPrefix + ownerID
}

// RedisNotifier publishes events on a per-owner redis channel. The websocket
// handler subscribes to the same channel to bridge events to clients.
type RedisNotifier struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisNotifier wraps an existing redis client.
func NewRedisNotifier(client *redis.Client, log logger.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: log}
}

// Push publishes one timestamped event. A channel with no subscribers simply
// drops the message.
func (n *RedisNotifier) Push(ctx context.Context, ownerID, eventType string, payload map[string]any) error {
	event := Event{
		Type:      eventType,
		OwnerID:   ownerID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := n.client.Publish(ctx, Channel(ownerID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	n.logger.Debug("Notification pushed",
		logger.String("owner_id", ownerID),
		logger.String("event_type", eventType),
	)
	return nil
}

// Subscribe opens a subscription on the owner's channel. The caller owns the
// returned PubSub and must close it.
func (n *RedisNotifier) Subscribe(ctx context.Context, ownerID string) *redis.PubSub {
	return n.client.Subscribe(ctx, Channel(ownerID))
}
