package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/venue-portal/internal/domain"
)

// RedisPublisher fans notifications out to every portal instance over a redis Pub/Sub
// channel. Nothing is stored: a notification published while an instance is down is
// never seen by it.
type RedisPublisher struct {
	client   *redis.Client
	channel  string
	logger   *slog.Logger
	retryMin time.Duration
	retryMax time.Duration
}

// NewRedisPublisher creates a new RedisPublisher on channel.
func NewRedisPublisher(client *redis.Client, channel string, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:   client,
		channel:  channel,
		logger:   logger.With("component", "redis_notifier"),
		retryMin: 500 * time.Millisecond,
		retryMax: 30 * time.Second,
	}
}

// Publish sends n to the channel.
func (p *RedisPublisher) Publish(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification %s: %w", n.ID, err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification %s to %s: %w", n.ID, p.channel, err)
	}
	return nil
}

// Subscribe calls handler for every message on the channel until ctx is done.
// While redis is unreachable the initial subscription is retried with backoff;
// once established, go-redis re-subscribes after dropped connections.
func (p *RedisPublisher) Subscribe(ctx context.Context, handler func(domain.Notification)) error {
	pubsub := p.subscribe(ctx)
	if pubsub == nil {
		return nil
	}
	defer pubsub.Close()
	p.logger.Info("subscribed to notification channel", "channel", p.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var n domain.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				p.logger.Warn("failed to unmarshal notification", "error", err, "channel", msg.Channel)
				continue
			}
			handler(n)
		}
	}
}

// subscribe returns a confirmed subscription, or nil once ctx is done.
func (p *RedisPublisher) subscribe(ctx context.Context) *redis.PubSub {
	delay := p.retryMin
	for {
		pubsub := p.client.Subscribe(ctx, p.channel)
		// Wait for confirmation that subscription is created before publishing anything.
		_, err := pubsub.Receive(ctx)
		if err == nil {
			return pubsub
		}
		pubsub.Close()
		if ctx.Err() != nil {
			return nil
		}

		p.logger.Warn("failed to subscribe to notification channel, retrying",
			"channel", p.channel, "error", err, "retry_in", delay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay = min(delay*2, p.retryMax)
	}
}
