package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsherpa_reports_generated_total",
			Help: "Total number of reports returned, by source",
		},
		[]string{"source"},
	)

	providerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsherpa_provider_failures_total",
			Help: "Total number of provider attempts that fell back, by provider and reason",
		},
		[]string{"provider", "reason"},
	)

	providerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compsherpa_provider_request_duration_seconds",
			Help:    "Duration of provider requests in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	reportSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsherpa_report_saves_total",
			Help: "Total number of background report saves, by outcome",
		},
		[]string{"outcome"},
	)
)
