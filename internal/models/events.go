package models

import "time"

// Event types
const (
	EventTypeBidAccepted    = "BID_ACCEPTED"
	EventTypeAuctionStarted = "AUCTION_STARTED"
	EventTypeAuctionEnded   = "AUCTION_ENDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BidAcceptedEvent is published after a bid commits. PreviousBidderID
// identifies the outbid user (empty for the first bid) so the
// notification collaborator can deliver an outbid notice.
type BidAcceptedEvent struct {
	BaseEvent
	AuctionID        string `json:"auction_id"`
	Bid              Bid    `json:"bid"`
	PreviousBidderID string `json:"previous_bidder_id,omitempty"`
	PreviousPrice    int64  `json:"previous_price"`
	TotalBids        int    `json:"total_bids"`
}

// AuctionStartedEvent is published when the scheduler moves an auction
// from UPCOMING to ACTIVE.
type AuctionStartedEvent struct {
	BaseEvent
	AuctionID string    `json:"auction_id"`
	EndTime   time.Time `json:"end_time"`
}

// AuctionEndedEvent is published when the scheduler moves an auction
// from ACTIVE to ENDED. Winner fields are empty when no bid was placed.
type AuctionEndedEvent struct {
	BaseEvent
	AuctionID  string `json:"auction_id"`
	FinalPrice int64  `json:"final_price"`
	TotalBids  int    `json:"total_bids"`
}
