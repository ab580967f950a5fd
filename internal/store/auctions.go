package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bidding-service/internal/models"
)

// CreateAuction inserts a new auction. current_price starts at
// starting_price and total_bids at zero.
func (s *Store) CreateAuction(ctx context.Context, auction *models.Auction) error {
	query := `
		INSERT INTO auctions (id, seller_id, status, start_time, end_time,
			starting_price, current_price, minimum_increment, total_bids)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7, 0)
		RETURNING created_at, updated_at`

	auction.CurrentPrice = auction.StartingPrice
	auction.TotalBids = 0
	return s.db.QueryRowxContext(ctx, query,
		auction.ID, auction.SellerID, auction.Status,
		auction.StartTime, auction.EndTime,
		auction.StartingPrice, auction.MinimumIncrement,
	).Scan(&auction.CreatedAt, &auction.UpdatedAt)
}

// GetAuctionByID retrieves an auction by ID
func (s *Store) GetAuctionByID(ctx context.Context, id string) (*models.Auction, error) {
	var auction models.Auction
	err := s.db.GetContext(ctx, &auction, "SELECT * FROM auctions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get auction %s: %w", id, ErrAuctionNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

// PlaceBid runs the atomic bid unit for one auction: it locks the
// auction row, re-reads the highest bid under the lock, and hands both
// to decide. When decide returns a bid, the bid insert and the
// current_price/total_bids update commit together; on rejection or
// error nothing is written.
//
// Row locks serialize bids per auction only; bids on different auctions
// never contend with each other.
func (s *Store) PlaceBid(ctx context.Context, auctionID string, decide BidDecision) (*models.Bid, *Receipt, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin bid transaction: %w", err)
	}
	defer tx.Rollback()

	var auction models.Auction
	err = tx.GetContext(ctx, &auction,
		"SELECT * FROM auctions WHERE id = $1 FOR UPDATE", auctionID)
	if err == sql.ErrNoRows {
		// Let the decision see the absence so the rejection reason
		// comes from one place.
		_, receipt, derr := runDecision(decide, nil, nil)
		return nil, receipt, derr
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lock auction %s: %w", auctionID, err)
	}

	var highest *models.Bid
	var top models.Bid
	err = tx.GetContext(ctx, &top,
		"SELECT * FROM bids WHERE auction_id = $1 ORDER BY amount DESC LIMIT 1", auctionID)
	if err != nil && err != sql.ErrNoRows {
		return nil, nil, fmt.Errorf("read highest bid for auction %s: %w", auctionID, err)
	}
	if err == nil {
		highest = &top
	}

	bid, receipt, err := runDecision(decide, &auction, highest)
	if err != nil {
		return nil, nil, err
	}
	if bid == nil {
		return nil, receipt, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bids (id, auction_id, bidder_id, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		bid.ID, bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert bid for auction %s: %w", auctionID, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE auctions
		 SET current_price = $1, total_bids = total_bids + 1, updated_at = NOW()
		 WHERE id = $2`,
		bid.Amount, auctionID)
	if err != nil {
		return nil, nil, fmt.Errorf("advance auction %s: %w", auctionID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit bid for auction %s: %w", auctionID, err)
	}
	return bid, receipt, nil
}

func runDecision(decide BidDecision, auction *models.Auction, highest *models.Bid) (*models.Bid, *Receipt, error) {
	bid, err := decide(auction, highest)
	if err != nil {
		return nil, nil, err
	}
	receipt := &Receipt{}
	if auction != nil {
		receipt.TotalBids = auction.TotalBids
	}
	if highest != nil {
		receipt.PreviousBidderID = highest.BidderID
		receipt.PreviousPrice = highest.Amount
	} else if auction != nil {
		receipt.PreviousPrice = auction.StartingPrice
	}
	if bid != nil {
		receipt.TotalBids++
	}
	return bid, receipt, nil
}

// ActivateDueAuctions flips every UPCOMING auction whose window has
// opened to ACTIVE. The status guard in the WHERE clause keeps the
// sweep idempotent under concurrent runs.
func (s *Store) ActivateDueAuctions(ctx context.Context, now time.Time) ([]models.Auction, error) {
	var activated []models.Auction
	err := s.db.SelectContext(ctx, &activated,
		`UPDATE auctions SET status = $1, updated_at = NOW()
		 WHERE status = $2 AND start_time <= $3
		 RETURNING *`,
		models.AuctionStatusActive, models.AuctionStatusUpcoming, now)
	return activated, err
}

// EndDueAuctions flips every ACTIVE auction whose window has closed to
// ENDED. Price and counters are never touched here.
func (s *Store) EndDueAuctions(ctx context.Context, now time.Time) ([]models.Auction, error) {
	var ended []models.Auction
	err := s.db.SelectContext(ctx, &ended,
		`UPDATE auctions SET status = $1, updated_at = NOW()
		 WHERE status = $2 AND end_time <= $3
		 RETURNING *`,
		models.AuctionStatusEnded, models.AuctionStatusActive, now)
	return ended, err
}
