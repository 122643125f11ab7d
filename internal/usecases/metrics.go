package usecases

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics
var (
	transfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brich_transfers_total",
			Help: "Total number of attempted transfers by terminal outcome",
		},
		[]string{"outcome"},
	)

	transferConfirmationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brich_transfer_confirmation_seconds",
			Help:    "Wall-clock time from broadcast to terminal confirmation status",
			Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	syncRecordsTouched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brich_sync_records_total",
			Help: "Total number of transaction records written by history sync",
		},
	)

	bridgeCompensations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brich_bridge_compensations_total",
			Help: "Total number of compensating fiat credits after a failed wallet credit",
		},
	)
)
