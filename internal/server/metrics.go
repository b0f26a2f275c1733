package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsherpa_http_requests_total",
			Help: "Total number of HTTP requests, by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compsherpa_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsherpa_signups_total",
			Help: "Total number of email sign-ups received, by outcome",
		},
		[]string{"outcome"},
	)
)
