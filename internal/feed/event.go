// Package feed fans committed slot and booking changes out to subscribers.
// Delivery is best effort: a slow or failed subscriber never blocks a write.
package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TableBookings          = "bookings"
	TableAvailabilitySlots = "availability_slots"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
)

type Event struct {
	ID         uuid.UUID  `json:"id"`
	Table      string     `json:"table"`
	Type       EventType  `json:"type"`
	OwnerID    uuid.UUID  `json:"trainer_id"`
	ClientID   *uuid.UUID `json:"client_id,omitempty"`
	RecordID   uuid.UUID  `json:"record_id"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func NewEvent(table string, eventType EventType, ownerID uuid.UUID, clientID *uuid.UUID, recordID uuid.UUID, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Table:      table,
		Type:       eventType,
		OwnerID:    ownerID,
		ClientID:   clientID,
		RecordID:   recordID,
		OccurredAt: at.UTC(),
	}
}

// RoutingKey is "<table>.<trainer id>".
func (e Event) RoutingKey() string {
	return e.Table + "." + e.OwnerID.String()
}

// Filter narrows a subscription. Zero fields match everything.
type Filter struct {
	Table    string
	OwnerID  *uuid.UUID
	ClientID *uuid.UUID
}

func (f Filter) Match(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if f.OwnerID != nil && *f.OwnerID != e.OwnerID {
		return false
	}
	if f.ClientID != nil && (e.ClientID == nil || *e.ClientID != *f.ClientID) {
		return false
	}
	return true
}

// Pattern renders the table and owner part of the filter as a routing
// pattern. "*" is a single-word wildcard for AMQP topics and a glob for redis.
func (f Filter) Pattern() string {
	table, owner := "*", "*"
	if f.Table != "" {
		table = f.Table
	}
	if f.OwnerID != nil {
		owner = f.OwnerID.String()
	}
	return table + "." + owner
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, filter Filter) (*Subscription, error)
}

// Feed is a driver: memory, amqp or redis.
type Feed interface {
	Publisher
	Subscriber
	Close() error
}
