package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farm-shop/internal/pricing"

	"github.com/segmentio/kafka-go"
)

// Event types
const (
	EventTypeOrderComposed = "ORDER_COMPOSED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderComposedEvent is published when a buyer dispatches a composed order.
// It feeds the seller console; losing one is acceptable, the buyer still
// pastes the text into LINE by hand.
type OrderComposedEvent struct {
	BaseEvent
	Session string         `json:"session"`
	FarmTag string         `json:"farm_tag"`
	Lines   []pricing.Line `json:"lines"`
	Total   float64        `json:"total"`
	Text    string         `json:"text"`
}

// EventPublisher publishes shop domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderComposed publishes an OrderComposed event keyed by session
func (ep *EventPublisher) PublishOrderComposed(ctx context.Context, event *OrderComposedEvent) error {
	key := fmt.Sprintf("session-%s", event.Session)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming feed messages
type EventHandler struct {
	onOrderComposed func(context.Context, *OrderComposedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderComposed registers a handler for OrderComposed events
func (eh *EventHandler) OnOrderComposed(handler func(context.Context, *OrderComposedEvent) error) {
	eh.onOrderComposed = handler
}

// HandleMessage routes a message to the registered handler
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var base BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch base.EventType {
	case EventTypeOrderComposed:
		if eh.onOrderComposed != nil {
			var event OrderComposedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderComposed event: %w", err)
			}
			return eh.onOrderComposed(ctx, &event)
		}
	}

	return nil
}
