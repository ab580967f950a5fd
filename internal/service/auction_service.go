package service

import (
	"context"
	"fmt"
	"time"

	"bidding-service/internal/bidding"
	"bidding-service/internal/models"
	"bidding-service/internal/store"
	"bidding-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuctionService covers the read and creation surface around the
// bidding engine. It never mutates price state; that is the bid
// transaction's job alone.
type AuctionService struct {
	store  AuctionStore
	cache  SnapshotCache
	logger *zap.Logger
	now    func() time.Time
}

// NewAuctionService creates a new auction service
func NewAuctionService(auctionStore AuctionStore, cache SnapshotCache) *AuctionService {
	return &AuctionService{
		store:  auctionStore,
		cache:  cache,
		logger: util.GetLogger(),
		now:    time.Now,
	}
}

// CreateAuctionRequest represents a request to create an auction
type CreateAuctionRequest struct {
	SellerID         string    `json:"seller_id" binding:"required"`
	StartTime        time.Time `json:"start_time" binding:"required"`
	EndTime          time.Time `json:"end_time" binding:"required"`
	StartingPrice    int64     `json:"starting_price" binding:"required,gt=0"`
	MinimumIncrement int64     `json:"minimum_increment" binding:"gte=0"`
}

// CreateAuction creates an auction in UPCOMING, or directly in ACTIVE
// when its window has already opened.
func (s *AuctionService) CreateAuction(ctx context.Context, req *CreateAuctionRequest) (*models.Auction, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("auction end time must be after start time")
	}

	now := s.now().UTC()
	status := models.AuctionStatusUpcoming
	if !req.StartTime.After(now) {
		status = models.AuctionStatusActive
	}

	auction := &models.Auction{
		ID:               uuid.New().String(),
		SellerID:         req.SellerID,
		Status:           status,
		StartTime:        req.StartTime.UTC(),
		EndTime:          req.EndTime.UTC(),
		StartingPrice:    req.StartingPrice,
		MinimumIncrement: req.MinimumIncrement,
	}
	if err := s.store.CreateAuction(ctx, auction); err != nil {
		return nil, fmt.Errorf("create auction: %w", err)
	}

	s.logger.Info("Auction created",
		zap.String("auction_id", auction.ID),
		zap.String("status", auction.Status),
		zap.Int64("starting_price", auction.StartingPrice))
	return auction, nil
}

// AuctionView is an auction plus the lowest amount the next bid must
// reach, for display surfaces.
type AuctionView struct {
	Auction       *models.Auction `json:"auction"`
	RequiredToBid int64           `json:"required_to_bid"`
}

// GetAuction returns the latest committed auction state. Reads are
// lock-free and may be stale relative to in-flight bids; acceptance
// decisions never go through here.
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (*AuctionView, error) {
	auction, err := s.store.GetAuctionByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	highest, err := s.store.GetHighestBid(ctx, auctionID)
	if err != nil && !store.IsNoBids(err) {
		return nil, err
	}

	return &AuctionView{
		Auction:       auction,
		RequiredToBid: bidding.RequiredAmount(auction, highest),
	}, nil
}

// GetSnapshot serves the cached display view, falling back to storage
// on a miss and repopulating the cache.
func (s *AuctionService) GetSnapshot(ctx context.Context, auctionID string) (*models.AuctionSnapshot, error) {
	if s.cache != nil {
		if snapshot, err := s.cache.GetSnapshot(ctx, auctionID); err == nil && snapshot != nil {
			return snapshot, nil
		}
	}

	auction, err := s.store.GetAuctionByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.AuctionSnapshot{
		AuctionID:    auction.ID,
		Status:       auction.Status,
		CurrentPrice: auction.CurrentPrice,
		TotalBids:    auction.TotalBids,
		EndTime:      auction.EndTime,
		UpdatedAt:    auction.UpdatedAt,
	}
	if highest, err := s.store.GetHighestBid(ctx, auctionID); err == nil {
		snapshot.HighestBidderID = highest.BidderID
	}

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, snapshot); err != nil {
			s.logger.Warn("Failed to populate auction snapshot",
				zap.String("auction_id", auctionID), zap.Error(err))
		}
	}
	return snapshot, nil
}

// ListBids returns the auction's ledger, highest amount first.
func (s *AuctionService) ListBids(ctx context.Context, auctionID string) ([]models.Bid, error) {
	if _, err := s.store.GetAuctionByID(ctx, auctionID); err != nil {
		return nil, err
	}
	return s.store.ListBidsByAuction(ctx, auctionID)
}
