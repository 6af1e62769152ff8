package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PricingEvalTotal counts pricing engine evaluations by request kind and outcome.
	PricingEvalTotal *prometheus.CounterVec
	// PricingFloorRejectedTotal counts operator prices rejected by the minimum-price guard.
	PricingFloorRejectedTotal prometheus.Counter
	// QuoteCreatedTotal counts quotation document creations by outcome.
	QuoteCreatedTotal *prometheus.CounterVec
	// QuoteExpiredTotal counts draft quotations expired by the background sweep.
	QuoteExpiredTotal prometheus.Counter
	// SnapshotCacheTotal counts snapshot cache lookups by result (hit/miss).
	SnapshotCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PricingEvalTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_eval_total",
			Help:      "Count of pricing engine evaluations by request kind and outcome.",
		}, []string{"kind", "result"})
		PricingFloorRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_floor_rejected_total",
			Help:      "Count of unit prices rejected for violating the minimum-price floor.",
		})
		QuoteCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_created_total",
			Help:      "Count of quotation creations by outcome.",
		}, []string{"result"})
		QuoteExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_expired_total",
			Help:      "Number of draft quotations expired past their validity window.",
		})
		SnapshotCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_total",
			Help:      "Count of pricing snapshot cache lookups by result.",
		}, []string{"result"})

		mustRegisterCollector(reg, PricingEvalTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PricingEvalTotal = v
			}
		})
		mustRegisterCollector(reg, PricingFloorRejectedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				PricingFloorRejectedTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteCreatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteCreatedTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteExpiredTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				QuoteExpiredTotal = v
			}
		})
		mustRegisterCollector(reg, SnapshotCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SnapshotCacheTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
