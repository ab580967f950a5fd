package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bidding-service/internal/bidding"
	"bidding-service/internal/models"
	"bidding-service/internal/service"
	"bidding-service/internal/store"
	"bidding-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BidPlacer is the bid submission entry point.
type BidPlacer interface {
	PlaceBid(ctx context.Context, auctionID, bidderID string, amount int64) (*service.PlaceBidResult, error)
}

// AuctionReader covers the read and creation surface.
type AuctionReader interface {
	CreateAuction(ctx context.Context, req *service.CreateAuctionRequest) (*models.Auction, error)
	GetAuction(ctx context.Context, auctionID string) (*service.AuctionView, error)
	GetSnapshot(ctx context.Context, auctionID string) (*models.AuctionSnapshot, error)
	ListBids(ctx context.Context, auctionID string) ([]models.Bid, error)
}

// Handler contains HTTP handlers
type Handler struct {
	bids     BidPlacer
	auctions AuctionReader
}

// NewHandler creates a new HTTP handler
func NewHandler(bids BidPlacer, auctions AuctionReader) *Handler {
	return &Handler{
		bids:     bids,
		auctions: auctions,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auctions", h.createAuction)
		v1.GET("/auctions/:id", h.getAuction)
		v1.GET("/auctions/:id/bids", h.listBids)
		v1.POST("/auctions/:id/bids", h.placeBid)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type placeBidRequest struct {
	BidderID string `json:"bidder_id" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
}

// placeBid handles bid submission
func (h *Handler) placeBid(c *gin.Context) {
	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.bids.PlaceBid(c.Request.Context(), c.Param("id"), req.BidderID, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrContention) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Auction is busy, retry the bid",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to place bid",
			"details": err.Error(),
		})
		return
	}

	if !result.Accepted {
		c.JSON(rejectionStatus(result.Rejection.Reason), result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// rejectionStatus maps a business rejection onto an HTTP status. The
// rejection payload itself is safe to show to the end user.
func rejectionStatus(reason bidding.Reason) int {
	switch reason {
	case bidding.ReasonAuctionNotFound:
		return http.StatusNotFound
	case bidding.ReasonSellerBid:
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}

// createAuction handles auction creation
func (h *Handler) createAuction(c *gin.Context) {
	var req service.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	auction, err := h.auctions.CreateAuction(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to create auction",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, auction)
}

// getAuction serves the display view. With ?snapshot=1 the cached,
// possibly stale view is returned without touching the database.
func (h *Handler) getAuction(c *gin.Context) {
	auctionID := c.Param("id")

	if snap, _ := strconv.ParseBool(c.Query("snapshot")); snap {
		snapshot, err := h.auctions.GetSnapshot(c.Request.Context(), auctionID)
		if err != nil {
			h.renderReadError(c, err)
			return
		}
		c.JSON(http.StatusOK, snapshot)
		return
	}

	view, err := h.auctions.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		h.renderReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// listBids serves the auction's ledger
func (h *Handler) listBids(c *gin.Context) {
	bids, err := h.auctions.ListBids(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

func (h *Handler) renderReadError(c *gin.Context, err error) {
	if store.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Auction not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to read auction",
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
