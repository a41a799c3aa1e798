package feed

import (
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	subscriptionBuffer = 64
	defaultDedupSize   = 1024
)

// Subscription is one consumer's view of the feed. Events are buffered;
// when the buffer is full new events are dropped for this subscriber only.
type Subscription struct {
	filter  Filter
	events  chan Event
	done    chan struct{}
	seen    *lru.Cache[uuid.UUID, struct{}]
	log     *zap.Logger
	once    sync.Once
	onClose func()
}

func newSubscription(filter Filter, dedupSize int, log *zap.Logger, onClose func()) (*Subscription, error) {
	if dedupSize <= 0 {
		dedupSize = defaultDedupSize
	}
	seen, err := lru.New[uuid.UUID, struct{}](dedupSize)
	if err != nil {
		return nil, err
	}
	return &Subscription{
		filter:  filter,
		events:  make(chan Event, subscriptionBuffer),
		done:    make(chan struct{}),
		seen:    seen,
		log:     log,
		onClose: onClose,
	}, nil
}

// Events never closes; select on Done as well.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// deliver hands e to the subscriber if it passes the filter and was not seen before.
func (s *Subscription) deliver(e Event) bool {
	if !s.filter.Match(e) {
		return false
	}
	if seen, _ := s.seen.ContainsOrAdd(e.ID, struct{}{}); seen {
		return false
	}

	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.events <- e:
		return true
	case <-s.done:
		return false
	default:
		s.log.Warn("Dropping feed event for slow subscriber",
			zap.String("event_id", e.ID.String()),
			zap.String("routing_key", e.RoutingKey()),
		)
		return false
	}
}
