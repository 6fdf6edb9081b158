package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts broadcast attempts by transaction type and outcome
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relayer_submissions_total",
			Help: "Total number of transaction submissions",
		},
		[]string{"type", "status"},
	)

	// SubmissionDuration tracks the time spent in a synchronous submission
	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relayer_submission_duration_seconds",
			Help:    "Submission duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	// ConfirmationsTotal counts finalized ledger entries by terminal status
	ConfirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relayer_confirmations_total",
			Help: "Total number of transactions finalized",
		},
		[]string{"status"},
	)

	// PendingTransactions is the number of broadcast transactions awaiting a receipt
	PendingTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relayer_pending_transactions",
			Help: "Number of broadcast transactions awaiting a receipt",
		},
	)

	// StalledSubmissions is the number of notifications stuck before broadcast
	StalledSubmissions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relayer_stalled_submissions",
			Help: "Number of notifications left in submitting state",
		},
	)

	// RelayerBalance is the last sampled balance in wei
	RelayerBalance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relayer_balance_wei",
			Help: "Last sampled relayer balance in wei",
		},
	)

	// GasUsed tracks gas consumed by confirmed transactions
	GasUsed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relayer_gas_used",
			Help:    "Gas used by confirmed transactions",
			Buckets: []float64{21000, 50000, 100000, 150000, 200000, 300000, 500000, 1000000},
		},
	)

	// ReconcileDuration tracks the time taken by a reconciliation sweep
	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relayer_reconcile_duration_seconds",
			Help:    "Reconciliation sweep duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ErrorsTotal counts errors by component and kind
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relayer_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "kind"},
	)
)
