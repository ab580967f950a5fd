package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"bidding-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing auction domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func auctionKey(auctionID string) string {
	return fmt.Sprintf("auction-%s", auctionID)
}

// PublishBidAccepted publishes a BidAccepted event
func (ep *EventPublisher) PublishBidAccepted(ctx context.Context, event *models.BidAcceptedEvent) error {
	return ep.producer.PublishEvent(ctx, auctionKey(event.AuctionID), event)
}

// PublishAuctionStarted publishes an AuctionStarted event
func (ep *EventPublisher) PublishAuctionStarted(ctx context.Context, event *models.AuctionStartedEvent) error {
	return ep.producer.PublishEvent(ctx, auctionKey(event.AuctionID), event)
}

// PublishAuctionEnded publishes an AuctionEnded event
func (ep *EventPublisher) PublishAuctionEnded(ctx context.Context, event *models.AuctionEndedEvent) error {
	return ep.producer.PublishEvent(ctx, auctionKey(event.AuctionID), event)
}

// EventHandler routes consumed auction events to registered callbacks.
type EventHandler struct {
	onBidAccepted  func(context.Context, *models.BidAcceptedEvent) error
	onAuctionEnded func(context.Context, *models.AuctionEndedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnBidAccepted registers a handler for BidAccepted events
func (eh *EventHandler) OnBidAccepted(handler func(context.Context, *models.BidAcceptedEvent) error) {
	eh.onBidAccepted = handler
}

// OnAuctionEnded registers a handler for AuctionEnded events
func (eh *EventHandler) OnAuctionEnded(handler func(context.Context, *models.AuctionEndedEvent) error) {
	eh.onAuctionEnded = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeBidAccepted:
		if eh.onBidAccepted != nil {
			var event models.BidAcceptedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal BidAccepted event: %w", err)
			}
			return eh.onBidAccepted(ctx, &event)
		}

	case models.EventTypeAuctionEnded:
		if eh.onAuctionEnded != nil {
			var event models.AuctionEndedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal AuctionEnded event: %w", err)
			}
			return eh.onAuctionEnded(ctx, &event)
		}
	}

	return nil
}
