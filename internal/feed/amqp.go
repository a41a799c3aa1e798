package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPFeed publishes events to a durable topic exchange and gives every
// subscription its own exclusive auto-delete queue bound by filter pattern.
type AMQPFeed struct {
	conn      *amqp.Connection
	pubMu     sync.Mutex
	pubCh     *amqp.Channel
	exchange  string
	dedupSize int
	log       *zap.Logger
}

func NewAMQPFeed(url, exchange string, dedupSize int, log *zap.Logger) (*AMQPFeed, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPFeed{
		conn:      conn,
		pubCh:     ch,
		exchange:  exchange,
		dedupSize: dedupSize,
		log:       log.With(zap.String("feed", "amqp"), zap.String("exchange", exchange)),
	}, nil
}

func (f *AMQPFeed) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	f.pubMu.Lock()
	defer f.pubMu.Unlock()
	return f.pubCh.PublishWithContext(ctx, f.exchange, event.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	})
}

func (f *AMQPFeed) Subscribe(ctx context.Context, filter Filter) (*Subscription, error) {
	ch, err := f.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, filter.Pattern(), f.exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("bind %s: %w", filter.Pattern(), err)
	}

	consumeCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	deliveries, err := ch.ConsumeWithContext(consumeCtx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		cancel()
		_ = ch.Close()
		return nil, fmt.Errorf("consume %s: %w", q.Name, err)
	}

	sub, err := newSubscription(filter, f.dedupSize, f.log, func() {
		cancel()
		_ = ch.Close()
	})
	if err != nil {
		cancel()
		_ = ch.Close()
		return nil, err
	}

	go f.relay(sub, deliveries)
	return sub, nil
}

func (f *AMQPFeed) relay(sub *Subscription, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		var event Event
		if err := json.Unmarshal(d.Body, &event); err != nil {
			f.log.Warn("Skipping malformed feed message", zap.Error(err), zap.String("routing_key", d.RoutingKey))
			continue
		}
		sub.deliver(event)
	}
	// channel closed by broker or by Close
	sub.Close()
}

func (f *AMQPFeed) Close() error {
	f.pubMu.Lock()
	defer f.pubMu.Unlock()
	if f.pubCh != nil {
		_ = f.pubCh.Close()
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
