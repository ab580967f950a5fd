package bidding

import (
	"testing"
	"time"

	"bidding-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeAuction(now time.Time) *models.Auction {
	return &models.Auction{
		ID:               "auction1",
		SellerID:         "seller1",
		Status:           models.AuctionStatusActive,
		StartTime:        now.Add(-time.Hour),
		EndTime:          now.Add(time.Hour),
		StartingPrice:    10000,
		CurrentPrice:     10000,
		MinimumIncrement: 0,
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		auction        func() *models.Auction
		highest        *models.Bid
		candidate      Candidate
		expectAccept   bool
		expectReason   Reason
		expectRequired int64
	}{
		{
			name:         "missing_auction",
			auction:      func() *models.Auction { return nil },
			candidate:    Candidate{BidderID: "user1", Amount: 10500},
			expectReason: ReasonAuctionNotFound,
		},
		{
			name: "upcoming_auction",
			auction: func() *models.Auction {
				a := activeAuction(now)
				a.Status = models.AuctionStatusUpcoming
				return a
			},
			candidate:    Candidate{BidderID: "user1", Amount: 10500},
			expectReason: ReasonAuctionNotActive,
		},
		{
			name: "ended_auction",
			auction: func() *models.Auction {
				a := activeAuction(now)
				a.Status = models.AuctionStatusEnded
				return a
			},
			candidate:    Candidate{BidderID: "user1", Amount: 10500},
			expectReason: ReasonAuctionNotActive,
		},
		{
			name: "cancelled_auction",
			auction: func() *models.Auction {
				a := activeAuction(now)
				a.Status = models.AuctionStatusCancelled
				return a
			},
			candidate:    Candidate{BidderID: "user1", Amount: 10500},
			expectReason: ReasonAuctionNotActive,
		},
		{
			// Status still reads ACTIVE but the window has closed; the
			// clock wins over the lagging scheduler.
			name: "active_status_past_end_time",
			auction: func() *models.Auction {
				a := activeAuction(now)
				a.EndTime = now.Add(-time.Minute)
				return a
			},
			candidate:    Candidate{BidderID: "user1", Amount: 10500},
			expectReason: ReasonAuctionNotActive,
		},
		{
			name: "active_status_before_start_time",
			auction: func() *models.Auction {
				a := activeAuction(now)
				a.StartTime = now.Add(time.Minute)
				return a
			},
			candidate:    Candidate{BidderID: "user1", Amount: 10500},
			expectReason: ReasonAuctionNotActive,
		},
		{
			name:         "seller_self_bid",
			auction:      func() *models.Auction { return activeAuction(now) },
			candidate:    Candidate{BidderID: "seller1", Amount: 999999},
			expectReason: ReasonSellerBid,
		},
		{
			name:           "first_bid_below_floor",
			auction:        func() *models.Auction { return activeAuction(now) },
			candidate:      Candidate{BidderID: "user1", Amount: 10499},
			expectReason:   ReasonBidTooLow,
			expectRequired: 10500,
		},
		{
			name:         "first_bid_at_exact_floor",
			auction:      func() *models.Auction { return activeAuction(now) },
			candidate:    Candidate{BidderID: "user1", Amount: 10500},
			expectAccept: true,
		},
		{
			name:         "first_bid_above_floor",
			auction:      func() *models.Auction { return activeAuction(now) },
			candidate:    Candidate{BidderID: "user1", Amount: 12000},
			expectAccept: true,
		},
		{
			name:           "bid_below_highest_plus_increment",
			auction:        func() *models.Auction { return activeAuction(now) },
			highest:        &models.Bid{BidderID: "user1", Amount: 10500},
			candidate:      Candidate{BidderID: "user2", Amount: 10500},
			expectReason:   ReasonBidTooLow,
			expectRequired: 11000,
		},
		{
			name:         "bid_at_highest_plus_increment",
			auction:      func() *models.Auction { return activeAuction(now) },
			highest:      &models.Bid{BidderID: "user1", Amount: 10500},
			candidate:    Candidate{BidderID: "user2", Amount: 11000},
			expectAccept: true,
		},
		{
			name: "configured_increment_above_floor",
			auction: func() *models.Auction {
				a := activeAuction(now)
				a.MinimumIncrement = 2000
				return a
			},
			highest:        &models.Bid{BidderID: "user1", Amount: 10500},
			candidate:      Candidate{BidderID: "user2", Amount: 12000},
			expectReason:   ReasonBidTooLow,
			expectRequired: 12500,
		},
		{
			name: "configured_increment_below_floor_uses_floor",
			auction: func() *models.Auction {
				a := activeAuction(now)
				a.MinimumIncrement = 100
				return a
			},
			candidate:      Candidate{BidderID: "user1", Amount: 10100},
			expectReason:   ReasonBidTooLow,
			expectRequired: 10500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejection := Evaluate(tt.auction(), tt.highest, tt.candidate, now)

			if tt.expectAccept {
				require.Nil(t, rejection)
				return
			}
			require.NotNil(t, rejection)
			assert.Equal(t, tt.expectReason, rejection.Reason)
			if tt.expectRequired != 0 {
				assert.Equal(t, tt.expectRequired, rejection.Required)
			}
		})
	}
}

// Check ordering: a seller bidding on their own closed auction should be
// reported as not-active, not as a seller rejection.
func TestEvaluateCheckOrder(t *testing.T) {
	now := time.Now().UTC()
	auction := activeAuction(now)
	auction.Status = models.AuctionStatusEnded

	rejection := Evaluate(auction, nil, Candidate{BidderID: "seller1", Amount: 10500}, now)
	require.NotNil(t, rejection)
	assert.Equal(t, ReasonAuctionNotActive, rejection.Reason)
}

func TestRequiredAmount(t *testing.T) {
	now := time.Now().UTC()
	auction := activeAuction(now)

	assert.Equal(t, int64(10500), RequiredAmount(auction, nil))
	assert.Equal(t, int64(11500), RequiredAmount(auction, &models.Bid{Amount: 11000}))

	auction.MinimumIncrement = 3000
	assert.Equal(t, int64(13000), RequiredAmount(auction, nil))
}

func TestEffectiveIncrement(t *testing.T) {
	now := time.Now().UTC()
	auction := activeAuction(now)

	assert.Equal(t, SystemMinimumIncrement, EffectiveIncrement(auction))

	auction.MinimumIncrement = 499
	assert.Equal(t, SystemMinimumIncrement, EffectiveIncrement(auction))

	auction.MinimumIncrement = 501
	assert.Equal(t, int64(501), EffectiveIncrement(auction))
}
