package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bidding-service/internal/bidding"
	"bidding-service/internal/models"
	"bidding-service/internal/store"
	"bidding-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrContention is returned when a bid keeps losing storage conflicts
// after the internal retry budget. The bid was never judged invalid;
// callers may retry the whole request.
var ErrContention = errors.New("bid contention: retries exhausted")

// AuctionStore is the storage access the bidding engine needs. The
// concrete implementation is injected at bootstrap; nothing in this
// package reaches for a global connection.
type AuctionStore interface {
	CreateAuction(ctx context.Context, auction *models.Auction) error
	GetAuctionByID(ctx context.Context, id string) (*models.Auction, error)
	GetHighestBid(ctx context.Context, auctionID string) (*models.Bid, error)
	ListBidsByAuction(ctx context.Context, auctionID string) ([]models.Bid, error)
	PlaceBid(ctx context.Context, auctionID string, decide store.BidDecision) (*models.Bid, *store.Receipt, error)
}

// BidEventPublisher emits accepted-bid events for the notification
// subsystem. Delivery is asynchronous; the coordinator never waits.
type BidEventPublisher interface {
	PublishBidAccepted(ctx context.Context, event *models.BidAcceptedEvent) error
}

// SnapshotCache holds the stale-by-design display view of an auction.
type SnapshotCache interface {
	SetSnapshot(ctx context.Context, snapshot *models.AuctionSnapshot) error
	GetSnapshot(ctx context.Context, auctionID string) (*models.AuctionSnapshot, error)
	DeleteSnapshot(ctx context.Context, auctionID string) error
}

// BidService is the bid transaction coordinator: the only writer of
// auction price state and the bid ledger.
type BidService struct {
	store        AuctionStore
	cache        SnapshotCache
	events       BidEventPublisher
	logger       *zap.Logger
	retryMax     int
	retryBackoff time.Duration
	now          func() time.Time
}

// NewBidService creates a new bid service. retryMax bounds the internal
// replays of the read-validate-write unit on storage conflicts.
func NewBidService(
	auctionStore AuctionStore,
	cache SnapshotCache,
	events BidEventPublisher,
	retryMax int,
	retryBackoff time.Duration,
) *BidService {
	return &BidService{
		store:        auctionStore,
		cache:        cache,
		events:       events,
		logger:       util.GetLogger(),
		retryMax:     retryMax,
		retryBackoff: retryBackoff,
		now:          time.Now,
	}
}

// PlaceBidResult is the typed outcome of a bid submission. Exactly one
// of Bid and Rejection is set; rejections are expected outcomes, not
// errors.
type PlaceBidResult struct {
	Accepted  bool               `json:"accepted"`
	Bid       *models.Bid        `json:"bid,omitempty"`
	Rejection *bidding.Rejection `json:"rejection,omitempty"`
}

// PlaceBid submits a bid against an auction. The read of auction state,
// validation, ledger append and price advance run as one atomic unit
// keyed on the auction row, so concurrent bids on the same auction are
// totally ordered and bids on different auctions never contend.
func (s *BidService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount int64) (*PlaceBidResult, error) {
	ctx, span := util.StartSpan(ctx, "BidService.PlaceBid")
	defer span.End()

	start := time.Now()
	defer func() {
		util.BidPlacementLatency.Observe(time.Since(start).Seconds())
	}()

	candidate := bidding.Candidate{BidderID: bidderID, Amount: amount}

	var lastErr error
	for attempt := 0; attempt <= s.retryMax; attempt++ {
		if attempt > 0 {
			util.BidContentionRetries.Inc()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * s.retryBackoff):
			}
		}

		var rejection *bidding.Rejection
		bid, receipt, err := s.store.PlaceBid(ctx, auctionID, func(auction *models.Auction, highest *models.Bid) (*models.Bid, error) {
			now := s.now().UTC()
			rejection = bidding.Evaluate(auction, highest, candidate, now)
			if rejection != nil {
				return nil, nil
			}
			return &models.Bid{
				ID:        uuid.New().String(),
				AuctionID: auction.ID,
				BidderID:  bidderID,
				Amount:    amount,
				CreatedAt: now,
			}, nil
		})
		if err != nil {
			if store.IsRetryable(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("place bid on auction %s: %w", auctionID, err)
		}

		if rejection != nil {
			util.BidsRejectedTotal.WithLabelValues(string(rejection.Reason)).Inc()
			s.logger.Info("Bid rejected",
				zap.String("auction_id", auctionID),
				zap.String("bidder_id", bidderID),
				zap.Int64("amount", amount),
				zap.String("reason", string(rejection.Reason)))
			return &PlaceBidResult{Rejection: rejection}, nil
		}

		util.BidsAcceptedTotal.Inc()
		s.logger.Info("Bid accepted",
			zap.String("auction_id", auctionID),
			zap.String("bid_id", bid.ID),
			zap.String("bidder_id", bidderID),
			zap.Int64("amount", amount),
			zap.Int("total_bids", receipt.TotalBids))

		s.afterAccept(ctx, bid, receipt)
		return &PlaceBidResult{Accepted: true, Bid: bid}, nil
	}

	util.BidContentionExhausted.Inc()
	return nil, fmt.Errorf("auction %s: %w (last: %v)", auctionID, ErrContention, lastErr)
}

// afterAccept emits the accepted-bid event and refreshes the display
// snapshot. Both are best-effort; the bid is already durable.
func (s *BidService) afterAccept(ctx context.Context, bid *models.Bid, receipt *store.Receipt) {
	event := &models.BidAcceptedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBidAccepted,
			Timestamp: s.now().UTC(),
		},
		AuctionID:        bid.AuctionID,
		Bid:              *bid,
		PreviousBidderID: receipt.PreviousBidderID,
		PreviousPrice:    receipt.PreviousPrice,
		TotalBids:        receipt.TotalBids,
	}
	if err := s.events.PublishBidAccepted(ctx, event); err != nil {
		s.logger.Error("Failed to publish BidAccepted event",
			zap.String("auction_id", bid.AuctionID), zap.Error(err))
	}

	if s.cache == nil {
		return
	}
	snapshot := &models.AuctionSnapshot{
		AuctionID:       bid.AuctionID,
		Status:          models.AuctionStatusActive,
		CurrentPrice:    bid.Amount,
		HighestBidderID: bid.BidderID,
		TotalBids:       receipt.TotalBids,
		UpdatedAt:       s.now().UTC(),
	}
	if err := s.cache.SetSnapshot(ctx, snapshot); err != nil {
		s.logger.Warn("Failed to refresh auction snapshot",
			zap.String("auction_id", bid.AuctionID), zap.Error(err))
	}
}
