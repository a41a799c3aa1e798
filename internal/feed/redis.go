package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisFeed uses redis pub/sub. Channels are "<prefix>.<table>.<trainer id>"
// and subscriptions are pattern subscriptions on the same shape.
type RedisFeed struct {
	client    *redis.Client
	prefix    string
	dedupSize int
	log       *zap.Logger
}

func NewRedisFeed(opts *redis.Options, prefix string, dedupSize int, log *zap.Logger) (*RedisFeed, error) {
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	return &RedisFeed{
		client:    client,
		prefix:    prefix,
		dedupSize: dedupSize,
		log:       log.With(zap.String("feed", "redis"), zap.String("prefix", prefix)),
	}, nil
}

func (f *RedisFeed) channel(suffix string) string {
	return f.prefix + "." + suffix
}

func (f *RedisFeed) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}
	return f.client.Publish(ctx, f.channel(event.RoutingKey()), body).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, filter Filter) (*Subscription, error) {
	pubsub := f.client.PSubscribe(ctx, f.channel(filter.Pattern()))
	// wait for the subscription to be confirmed before handing it out
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("psubscribe %s: %w", filter.Pattern(), err)
	}

	sub, err := newSubscription(filter, f.dedupSize, f.log, func() {
		_ = pubsub.Close()
	})
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	go f.relay(sub, pubsub.Channel())
	return sub, nil
}

func (f *RedisFeed) relay(sub *Subscription, messages <-chan *redis.Message) {
	for msg := range messages {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			f.log.Warn("Skipping malformed feed message", zap.Error(err), zap.String("channel", msg.Channel))
			continue
		}
		sub.deliver(event)
	}
	sub.Close()
}

func (f *RedisFeed) Close() error {
	return f.client.Close()
}
