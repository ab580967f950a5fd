package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bidding-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestEventHandlerRoutesBidAccepted(t *testing.T) {
	handler := NewEventHandler()

	var got *models.BidAcceptedEvent
	handler.OnBidAccepted(func(_ context.Context, event *models.BidAcceptedEvent) error {
		got = event
		return nil
	})

	event := &models.BidAcceptedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e1",
			EventType: models.EventTypeBidAccepted,
			Timestamp: time.Now().UTC(),
		},
		AuctionID:        "auction1",
		Bid:              models.Bid{ID: "b1", AuctionID: "auction1", BidderID: "user2", Amount: 11000},
		PreviousBidderID: "user1",
		PreviousPrice:    10500,
		TotalBids:        2,
	}

	require.NoError(t, handler.HandleMessage(context.Background(), message(t, event)))
	require.NotNil(t, got)
	assert.Equal(t, "auction1", got.AuctionID)
	assert.Equal(t, "user1", got.PreviousBidderID)
	assert.Equal(t, int64(11000), got.Bid.Amount)
}

func TestEventHandlerRoutesAuctionEnded(t *testing.T) {
	handler := NewEventHandler()

	var got *models.AuctionEndedEvent
	handler.OnAuctionEnded(func(_ context.Context, event *models.AuctionEndedEvent) error {
		got = event
		return nil
	})

	event := &models.AuctionEndedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e2",
			EventType: models.EventTypeAuctionEnded,
			Timestamp: time.Now().UTC(),
		},
		AuctionID:  "auction1",
		FinalPrice: 11000,
		TotalBids:  2,
	}

	require.NoError(t, handler.HandleMessage(context.Background(), message(t, event)))
	require.NotNil(t, got)
	assert.Equal(t, int64(11000), got.FinalPrice)
}

func TestEventHandlerIgnoresUnregisteredTypes(t *testing.T) {
	handler := NewEventHandler()

	event := &models.AuctionStartedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e3",
			EventType: models.EventTypeAuctionStarted,
			Timestamp: time.Now().UTC(),
		},
		AuctionID: "auction1",
	}
	assert.NoError(t, handler.HandleMessage(context.Background(), message(t, event)))
}

func TestEventHandlerRejectsMalformedPayload(t *testing.T) {
	handler := NewEventHandler()
	err := handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}
