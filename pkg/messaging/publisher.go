package messaging

import (
	"context"
	"time"
)

const TopicOrderEvents = "order_events"

const (
	EventOrderPlaced = "order_placed"
	EventOrderFailed = "order_failed"
)

// Publisher sends JSON-encoded events to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	Close() error
}

// OrderEvent is emitted once per order submission attempt.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	SessionID  string    `json:"session_id"`
	ItemIDs    []string  `json:"item_ids"`
	GrandTotal string    `json:"grand_total"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, topic, key string, value interface{}) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
