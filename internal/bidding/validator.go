package bidding

import (
	"time"

	"bidding-service/internal/models"
)

// SystemMinimumIncrement is the floor applied to every auction's
// configured increment, regardless of what the listing stored.
const SystemMinimumIncrement int64 = 500

// Reason identifies why a bid was not accepted. These are expected
// business outcomes, safe to return to the end user as-is.
type Reason string

const (
	ReasonAuctionNotFound  Reason = "AUCTION_NOT_FOUND"
	ReasonAuctionNotActive Reason = "AUCTION_NOT_ACTIVE"
	ReasonSellerBid        Reason = "SELLER_BID_REJECTED"
	ReasonBidTooLow        Reason = "BID_TOO_LOW"
)

// Rejection describes a refused bid. Required carries the amount that
// would have been accepted, when known (BID_TOO_LOW only).
type Rejection struct {
	Reason   Reason `json:"reason"`
	Required int64  `json:"required_amount,omitempty"`
}

// Candidate is a bid under evaluation. It has no identity yet; ids and
// timestamps are assigned only on acceptance.
type Candidate struct {
	BidderID string
	Amount   int64
}

// EffectiveIncrement returns the auction's increment with the system
// floor applied.
func EffectiveIncrement(auction *models.Auction) int64 {
	if auction.MinimumIncrement < SystemMinimumIncrement {
		return SystemMinimumIncrement
	}
	return auction.MinimumIncrement
}

// RequiredAmount returns the lowest amount the next bid must reach.
// highest is nil when the auction has no bids yet.
func RequiredAmount(auction *models.Auction, highest *models.Bid) int64 {
	base := auction.StartingPrice
	if highest != nil {
		base = highest.Amount
	}
	return base + EffectiveIncrement(auction)
}

// Evaluate checks a candidate bid against the auction state read inside
// the bid transaction. It returns nil when the bid is acceptable and a
// Rejection otherwise. Pure: no I/O, no mutation.
//
// The wall-clock window is checked even when status reads ACTIVE,
// because the lifecycle scheduler may lag behind end_time; the clock,
// not the status column, is the authoritative guard.
func Evaluate(auction *models.Auction, highest *models.Bid, candidate Candidate, now time.Time) *Rejection {
	if auction == nil {
		return &Rejection{Reason: ReasonAuctionNotFound}
	}
	if auction.Status != models.AuctionStatusActive {
		return &Rejection{Reason: ReasonAuctionNotActive}
	}
	if now.Before(auction.StartTime) || now.After(auction.EndTime) {
		return &Rejection{Reason: ReasonAuctionNotActive}
	}
	if candidate.BidderID == auction.SellerID {
		return &Rejection{Reason: ReasonSellerBid}
	}
	required := RequiredAmount(auction, highest)
	// Equality is accepted: a bid at exactly the required amount wins,
	// which is what quick-bid buttons rely on.
	if candidate.Amount < required {
		return &Rejection{Reason: ReasonBidTooLow, Required: required}
	}
	return nil
}
