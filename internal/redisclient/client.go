package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bidding-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// snapshotTTL bounds how stale a cached auction view can get after the
// auction stops receiving writes.
const snapshotTTL = 10 * time.Minute

// Client caches per-auction display snapshots. Snapshots are refreshed
// after each committed bid and served to read surfaces without touching
// the database; staleness is acceptable there by design.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func snapshotKey(auctionID string) string {
	return fmt.Sprintf("auction:snapshot:%s", auctionID)
}

// SetSnapshot stores the display view for an auction.
func (c *Client) SetSnapshot(ctx context.Context, snapshot *models.AuctionSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal auction snapshot: %w", err)
	}
	return c.rdb.Set(ctx, snapshotKey(snapshot.AuctionID), payload, snapshotTTL).Err()
}

// GetSnapshot returns the cached display view, or nil on a miss.
func (c *Client) GetSnapshot(ctx context.Context, auctionID string) (*models.AuctionSnapshot, error) {
	payload, err := c.rdb.Get(ctx, snapshotKey(auctionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot models.AuctionSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal auction snapshot: %w", err)
	}
	return &snapshot, nil
}

// DeleteSnapshot drops the cached view, typically once an auction ends.
func (c *Client) DeleteSnapshot(ctx context.Context, auctionID string) error {
	return c.rdb.Del(ctx, snapshotKey(auctionID)).Err()
}
