package scheduler

import (
	"context"
	"time"

	"bidding-service/internal/models"
	"bidding-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LifecycleStore is the slice of storage the scheduler drives: the two
// status-guarded batch transitions. It never sees price or ledger
// writes.
type LifecycleStore interface {
	ActivateDueAuctions(ctx context.Context, now time.Time) ([]models.Auction, error)
	EndDueAuctions(ctx context.Context, now time.Time) ([]models.Auction, error)
}

// LifecycleEventPublisher emits auction state-change events.
type LifecycleEventPublisher interface {
	PublishAuctionStarted(ctx context.Context, event *models.AuctionStartedEvent) error
	PublishAuctionEnded(ctx context.Context, event *models.AuctionEndedEvent) error
}

// Scheduler periodically moves auctions through their time-bound
// lifecycle: UPCOMING -> ACTIVE once start_time passes, ACTIVE -> ENDED
// once end_time passes. Each sweep is idempotent and safe to run
// concurrently with bid traffic: the bid transaction's own wall-clock
// check is the authoritative guard, not this timer.
type Scheduler struct {
	store    LifecycleStore
	events   LifecycleEventPublisher
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
	done     chan struct{}
}

// New creates a lifecycle scheduler sweeping at the given interval.
func New(store LifecycleStore, events LifecycleEventPublisher, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		events:   events,
		interval: interval,
		logger:   util.GetLogger(),
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	defer close(s.done)

	s.logger.Info("Starting auction lifecycle scheduler",
		zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Lifecycle scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Done is closed once the sweep loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Sweep performs one activation pass and one ending pass. Exported so
// the bootstrap can run an immediate pass on startup.
func (s *Scheduler) Sweep(ctx context.Context) {
	ctx, span := util.StartSpan(ctx, "Scheduler.Sweep")
	defer span.End()

	now := s.now().UTC()

	activated, err := s.store.ActivateDueAuctions(ctx, now)
	if err != nil {
		s.logger.Error("Failed to activate due auctions", zap.Error(err))
	} else {
		for i := range activated {
			s.auctionStarted(ctx, &activated[i])
		}
	}

	ended, err := s.store.EndDueAuctions(ctx, now)
	if err != nil {
		s.logger.Error("Failed to end due auctions", zap.Error(err))
		return
	}
	for i := range ended {
		s.auctionEnded(ctx, &ended[i])
	}
}

func (s *Scheduler) auctionStarted(ctx context.Context, auction *models.Auction) {
	util.AuctionsActivatedTotal.Inc()
	s.logger.Info("Auction activated",
		zap.String("auction_id", auction.ID),
		zap.Time("end_time", auction.EndTime))

	event := &models.AuctionStartedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeAuctionStarted,
			Timestamp: s.now().UTC(),
		},
		AuctionID: auction.ID,
		EndTime:   auction.EndTime,
	}
	if err := s.events.PublishAuctionStarted(ctx, event); err != nil {
		s.logger.Error("Failed to publish AuctionStarted event",
			zap.String("auction_id", auction.ID), zap.Error(err))
	}
}

func (s *Scheduler) auctionEnded(ctx context.Context, auction *models.Auction) {
	util.AuctionsEndedTotal.Inc()
	s.logger.Info("Auction ended",
		zap.String("auction_id", auction.ID),
		zap.Int64("final_price", auction.CurrentPrice),
		zap.Int("total_bids", auction.TotalBids))

	event := &models.AuctionEndedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeAuctionEnded,
			Timestamp: s.now().UTC(),
		},
		AuctionID:  auction.ID,
		FinalPrice: auction.CurrentPrice,
		TotalBids:  auction.TotalBids,
	}
	if err := s.events.PublishAuctionEnded(ctx, event); err != nil {
		s.logger.Error("Failed to publish AuctionEnded event",
			zap.String("auction_id", auction.ID), zap.Error(err))
	}
}
