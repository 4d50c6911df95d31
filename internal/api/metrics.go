package api

import (
	"errors"
	"time"

	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/store"
	"anime-vault-go/internal/tokenize"
	"anime-vault-go/internal/wallet"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess     = "success"
	outcomeValidation  = "validation_error"
	outcomeWallet      = "wallet_error"
	outcomeNotFound    = "not_found"
	outcomeBusy        = "in_flight"
	outcomeMirror      = "mirror_error"
	outcomeTransaction = "error"
)

// Metrics counts vault operations by outcome.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers with reg. A nil registerer yields unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "animevault",
				Name:      "operations_total",
				Help:      "Vault operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "animevault",
				Name:      "operation_duration_seconds",
				Help:      "Time from request to refreshed record",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	m.operations.WithLabelValues(operation, outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	var validationErr *tokenize.ValidationError
	var mirrorErr *MirrorError
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.As(err, &mirrorErr):
		return outcomeMirror
	case errors.As(err, &validationErr), errors.Is(err, onechain.ErrInvalidPrice),
		errors.Is(err, ErrNotListed), errors.Is(err, ErrAlreadyListed), errors.Is(err, ErrNotOwner):
		return outcomeValidation
	case errors.Is(err, wallet.ErrNotConnected), errors.Is(err, wallet.ErrWalletNotFound):
		return outcomeWallet
	case errors.Is(err, store.ErrNFTNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrOperationInFlight):
		return outcomeBusy
	default:
		return outcomeTransaction
	}
}
