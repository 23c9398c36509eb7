package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SponsorshipMetrics holds all Prometheus metrics for the Sponsorship module
type SponsorshipMetrics struct {
	// Ledger metrics
	DepositsTotal    prometheus.Counter
	NegativeBalances prometheus.Counter

	// Proof metrics
	ProofsVerified prometheus.Counter
	ProofsRejected prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheStale     prometheus.Counter

	// Quota metrics
	QuotaRejections prometheus.Counter

	// Validation metrics
	ValidationsApproved *prometheus.CounterVec
	ValidationsRejected *prometheus.CounterVec

	// Settlement metrics
	SettlementsTotal    prometheus.Counter
	SettlementAnomalies *prometheus.CounterVec
}

var (
	sponsorshipMetricsOnce sync.Once
	sponsorshipMetrics     *SponsorshipMetrics
)

// NewSponsorshipMetrics creates and registers Sponsorship metrics (singleton pattern)
func NewSponsorshipMetrics() *SponsorshipMetrics {
	sponsorshipMetricsOnce.Do(func() {
		sponsorshipMetrics = &SponsorshipMetrics{
			// Ledger metrics
			DepositsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "deposits_total",
					Help:      "Total group deposits recorded",
				},
			),
			NegativeBalances: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "negative_balances_total",
					Help:      "Settlements that drove a group balance below zero",
				},
			),

			// Proof metrics
			ProofsVerified: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "proofs_verified_total",
					Help:      "Membership proofs verified successfully",
				},
			),
			ProofsRejected: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "proofs_rejected_total",
					Help:      "Membership proofs that failed verification",
				},
			),
			CacheHits: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "proof_cache_hits_total",
					Help:      "Cached proofs reused without reverification",
				},
			),
			CacheMisses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "proof_cache_misses_total",
					Help:      "Cached-mode operations with no usable cached proof",
				},
			),
			CacheStale: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "proof_cache_stale_total",
					Help:      "Cached proofs rejected or reverified due to a root change",
				},
			),

			// Quota metrics
			QuotaRejections: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "quota_rejections_total",
					Help:      "Operations rejected by the per-epoch gas quota",
				},
			),

			// Validation metrics
			ValidationsApproved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "validations_approved_total",
					Help:      "Sponsorship validations approved",
				},
				[]string{"mode"},
			),
			ValidationsRejected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "validations_rejected_total",
					Help:      "Sponsorship validations rejected",
				},
				[]string{"mode", "reason"},
			),

			// Settlement metrics
			SettlementsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "settlements_total",
					Help:      "Settlements processed",
				},
			),
			SettlementAnomalies: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "veil",
					Subsystem: "sponsorship",
					Name:      "settlement_anomalies_total",
					Help:      "Settlements that hit an unexpected condition",
				},
				[]string{"reason"},
			),
		}
	})
	return sponsorshipMetrics
}

// GetSponsorshipMetrics returns the singleton Sponsorship metrics instance
func GetSponsorshipMetrics() *SponsorshipMetrics {
	if sponsorshipMetrics == nil {
		return NewSponsorshipMetrics()
	}
	return sponsorshipMetrics
}
