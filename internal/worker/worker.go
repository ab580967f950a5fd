package worker

import (
	"context"

	"bidding-service/internal/broker"
	"bidding-service/internal/models"
	"bidding-service/internal/util"

	"go.uber.org/zap"
)

// SnapshotCache is the slice of the cache the worker maintains from the
// event stream.
type SnapshotCache interface {
	DeleteSnapshot(ctx context.Context, auctionID string) error
}

// NotificationWorker consumes auction events and hands outbid notices
// to the notification subsystem. Delivery itself lives outside this
// service; the worker is the boundary where the event leaves the
// bidding engine.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	cache        SnapshotCache
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, cache SnapshotCache) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		cache:    cache,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnBidAccepted(w.handleBidAccepted)
	eventHandler.OnAuctionEnded(w.handleAuctionEnded)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

// handleBidAccepted surfaces the outbid notice. The first bid on an
// auction has nobody to notify.
func (w *NotificationWorker) handleBidAccepted(ctx context.Context, event *models.BidAcceptedEvent) error {
	if event.PreviousBidderID == "" {
		return nil
	}

	w.logger.Info("Outbid notice",
		zap.String("auction_id", event.AuctionID),
		zap.String("outbid_user", event.PreviousBidderID),
		zap.Int64("previous_price", event.PreviousPrice),
		zap.Int64("new_price", event.Bid.Amount))
	return nil
}

// handleAuctionEnded drops the display snapshot so late readers fall
// back to the durable record.
func (w *NotificationWorker) handleAuctionEnded(ctx context.Context, event *models.AuctionEndedEvent) error {
	if w.cache == nil {
		return nil
	}
	if err := w.cache.DeleteSnapshot(ctx, event.AuctionID); err != nil {
		w.logger.Warn("Failed to drop auction snapshot",
			zap.String("auction_id", event.AuctionID), zap.Error(err))
	}
	return nil
}
