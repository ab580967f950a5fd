package models

import "time"

// Auction statuses. The set is closed; transitions are forward-only
// (UPCOMING -> ACTIVE -> ENDED, or -> CANCELLED).
const (
	AuctionStatusUpcoming  = "UPCOMING"
	AuctionStatusActive    = "ACTIVE"
	AuctionStatusEnded     = "ENDED"
	AuctionStatusCancelled = "CANCELLED"
)

// Auction represents a time-bounded sale with a rising price.
// current_price and total_bids are mutated only by the bid transaction;
// status is mutated only by the lifecycle scheduler.
type Auction struct {
	ID               string    `db:"id" json:"id"`
	SellerID         string    `db:"seller_id" json:"seller_id"`
	Status           string    `db:"status" json:"status"`
	StartTime        time.Time `db:"start_time" json:"start_time"`
	EndTime          time.Time `db:"end_time" json:"end_time"`
	StartingPrice    int64     `db:"starting_price" json:"starting_price"`
	CurrentPrice     int64     `db:"current_price" json:"current_price"`
	MinimumIncrement int64     `db:"minimum_increment" json:"minimum_increment"`
	TotalBids        int       `db:"total_bids" json:"total_bids"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Bid is one accepted, immutable entry in an auction's ledger.
// Rows are append-only; amounts are strictly increasing per auction.
type Bid struct {
	ID        string    `db:"id" json:"id"`
	AuctionID string    `db:"auction_id" json:"auction_id"`
	BidderID  string    `db:"bidder_id" json:"bidder_id"`
	Amount    int64     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AuctionSnapshot is the cached, possibly stale view served to display
// surfaces. Never used for acceptance decisions.
type AuctionSnapshot struct {
	AuctionID       string    `json:"auction_id"`
	Status          string    `json:"status"`
	CurrentPrice    int64     `json:"current_price"`
	HighestBidderID string    `json:"highest_bidder_id,omitempty"`
	TotalBids       int       `json:"total_bids"`
	EndTime         time.Time `json:"end_time"`
	UpdatedAt       time.Time `json:"updated_at"`
}
