package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BidsAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bids_accepted_total",
		Help: "Total number of bids accepted",
	})

	BidsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bids_rejected_total",
		Help: "Total number of bids rejected, by reason",
	}, []string{"reason"})

	BidContentionRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bid_contention_retries_total",
		Help: "Total number of bid transaction replays after storage conflicts",
	})

	BidContentionExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bid_contention_exhausted_total",
		Help: "Total number of bids dropped after the retry budget",
	})

	BidPlacementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bid_placement_latency_seconds",
		Help:    "Latency of bid placement including retries",
		Buckets: prometheus.DefBuckets,
	})

	AuctionsActivatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auctions_activated_total",
		Help: "Total number of auctions moved to ACTIVE by the scheduler",
	})

	AuctionsEndedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auctions_ended_total",
		Help: "Total number of auctions moved to ENDED by the scheduler",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
