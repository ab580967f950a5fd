package store

import (
	"context"
	"database/sql"
	"fmt"

	"bidding-service/internal/models"
)

// BidDecision inspects the auction state read under the row lock and
// returns the bid to append, or nil to leave the auction untouched
// (the caller records the rejection out of band). auction is nil when
// the auction does not exist. Returning an error aborts the unit.
type BidDecision func(auction *models.Auction, highest *models.Bid) (*models.Bid, error)

// Receipt reports the state the decision saw, for event emission:
// who held the high bid before this one, at what price, and the bid
// count after the write.
type Receipt struct {
	PreviousBidderID string
	PreviousPrice    int64
	TotalBids        int
}

// GetHighestBid returns the top bid for an auction, or ErrNoBids.
// Amounts are strictly increasing, so highest amount == most recent.
func (s *Store) GetHighestBid(ctx context.Context, auctionID string) (*models.Bid, error) {
	var bid models.Bid
	err := s.db.GetContext(ctx, &bid,
		"SELECT * FROM bids WHERE auction_id = $1 ORDER BY amount DESC LIMIT 1", auctionID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("highest bid for auction %s: %w", auctionID, ErrNoBids)
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// ListBidsByAuction returns the auction's ledger, highest first.
func (s *Store) ListBidsByAuction(ctx context.Context, auctionID string) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.SelectContext(ctx, &bids,
		"SELECT * FROM bids WHERE auction_id = $1 ORDER BY amount DESC", auctionID)
	return bids, err
}

// CountBids returns the number of ledger entries for an auction.
func (s *Store) CountBids(ctx context.Context, auctionID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM bids WHERE auction_id = $1", auctionID)
	return count, err
}
