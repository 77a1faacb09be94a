package events

import (
	"context"
	"time"
)

const (
	TopicOrders = "order_events"
	TopicUsers  = "user_events"
)

type Type string

const (
	OrderCreated       Type = "order_created"
	OrderStatusChanged Type = "order_status_changed"
	OrderDeleted       Type = "order_deleted"
	UserRegistered     Type = "user_registered"
)

// Event is the JSON payload written to Kafka. OrderID is zero for user
// events.
type Event struct {
	Type    Type      `json:"type"`
	OrderID int64     `json:"orderId,omitempty"`
	UserID  int64     `json:"userId"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}

func (e Event) Topic() string {
	if e.Type == UserRegistered {
		return TopicUsers
	}
	return TopicOrders
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Noop drops every event. It is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
