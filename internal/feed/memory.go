package feed

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("feed closed")

// Hub is the in-process feed driver.
type Hub struct {
	mu        sync.RWMutex
	subs      map[*Subscription]struct{}
	closed    bool
	dedupSize int
	log       *zap.Logger
}

func NewHub(dedupSize int, log *zap.Logger) *Hub {
	return &Hub{
		subs:      make(map[*Subscription]struct{}),
		dedupSize: dedupSize,
		log:       log.With(zap.String("feed", "memory")),
	}
}

func (h *Hub) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrClosed
	}
	for sub := range h.subs {
		sub.deliver(event)
	}
	return nil
}

func (h *Hub) Subscribe(ctx context.Context, filter Filter) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sub *Subscription
	sub, err := newSubscription(filter, h.dedupSize, h.log, func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	h.subs[sub] = struct{}{}
	return sub, nil
}

func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	return nil
}
