package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bidding-service/internal/models"
	"bidding-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu        sync.Mutex
	snapshots map[string]*models.AuctionSnapshot
}

func newMemCache() *memCache {
	return &memCache{snapshots: make(map[string]*models.AuctionSnapshot)}
}

func (c *memCache) SetSnapshot(_ context.Context, snapshot *models.AuctionSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *snapshot
	c.snapshots[snapshot.AuctionID] = &copied
	return nil
}

func (c *memCache) GetSnapshot(_ context.Context, auctionID string) (*models.AuctionSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot, ok := c.snapshots[auctionID]
	if !ok {
		return nil, nil
	}
	copied := *snapshot
	return &copied, nil
}

func (c *memCache) DeleteSnapshot(_ context.Context, auctionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, auctionID)
	return nil
}

func TestCreateAuction(t *testing.T) {
	st := newMemStore()
	svc := NewAuctionService(st, nil)
	now := time.Now().UTC()

	t.Run("future_start_is_upcoming", func(t *testing.T) {
		auction, err := svc.CreateAuction(context.Background(), &CreateAuctionRequest{
			SellerID:      "seller1",
			StartTime:     now.Add(time.Hour),
			EndTime:       now.Add(2 * time.Hour),
			StartingPrice: 10000,
		})
		require.NoError(t, err)
		assert.Equal(t, models.AuctionStatusUpcoming, auction.Status)
		assert.NotEmpty(t, auction.ID)
		assert.Equal(t, int64(10000), auction.CurrentPrice)
		assert.Zero(t, auction.TotalBids)
	})

	t.Run("open_window_is_active", func(t *testing.T) {
		auction, err := svc.CreateAuction(context.Background(), &CreateAuctionRequest{
			SellerID:      "seller1",
			StartTime:     now.Add(-time.Minute),
			EndTime:       now.Add(time.Hour),
			StartingPrice: 10000,
		})
		require.NoError(t, err)
		assert.Equal(t, models.AuctionStatusActive, auction.Status)
	})

	t.Run("end_before_start_rejected", func(t *testing.T) {
		_, err := svc.CreateAuction(context.Background(), &CreateAuctionRequest{
			SellerID:      "seller1",
			StartTime:     now.Add(2 * time.Hour),
			EndTime:       now.Add(time.Hour),
			StartingPrice: 10000,
		})
		require.Error(t, err)
	})
}

func TestGetAuctionView(t *testing.T) {
	st := newMemStore()
	svc := NewAuctionService(st, nil)
	now := time.Now().UTC()
	seedAuction(t, st, now)

	view, err := svc.GetAuction(context.Background(), "auction1")
	require.NoError(t, err)
	assert.Equal(t, "auction1", view.Auction.ID)
	assert.Equal(t, int64(10500), view.RequiredToBid)

	_, err = svc.GetAuction(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestGetSnapshotFallsBackToStore(t *testing.T) {
	st := newMemStore()
	cache := newMemCache()
	svc := NewAuctionService(st, cache)
	now := time.Now().UTC()
	seedAuction(t, st, now)

	// Miss: built from storage and cached.
	snapshot, err := svc.GetSnapshot(context.Background(), "auction1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), snapshot.CurrentPrice)
	assert.Len(t, cache.snapshots, 1)

	// Hit: served from the cache even when storage has moved on.
	st.auctions["auction1"].CurrentPrice = 11000
	snapshot, err = svc.GetSnapshot(context.Background(), "auction1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), snapshot.CurrentPrice)
}

func TestListBids(t *testing.T) {
	st := newMemStore()
	bids, _ := newTestService(t, st)
	svc := NewAuctionService(st, nil)
	now := time.Now().UTC()
	seedAuction(t, st, now)

	_, err := bids.PlaceBid(context.Background(), "auction1", "user1", 10500)
	require.NoError(t, err)
	_, err = bids.PlaceBid(context.Background(), "auction1", "user2", 11000)
	require.NoError(t, err)

	ledger, err := svc.ListBids(context.Background(), "auction1")
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, int64(11000), ledger[0].Amount)

	_, err = svc.ListBids(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}
