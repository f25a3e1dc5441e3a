package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for register activity. A nil
// *Metrics is a valid no-op, so tests and tools can skip the wiring.
type Metrics struct {
	ordersCommitted  prometheus.Counter
	commitFailures   prometheus.Counter
	salesCents       prometheus.Counter
	checkoutDuration prometheus.Histogram
}

// New registers the collectors with the default registerer.
func New() *Metrics {
	return newWithRegisterer(prometheus.DefaultRegisterer)
}

func newWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		ordersCommitted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_orders_committed_total",
			Help: "Total number of orders committed to storage",
		}),
		commitFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_order_commit_failures_total",
			Help: "Total number of order commits that failed",
		}),
		salesCents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_sales_cents_total",
			Help: "Gross sales in cents across committed orders",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "pos_checkout_duration_seconds",
			Help:    "Duration of checkout including the storage commit",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCommitted counts a successful checkout and its gross value.
func (m *Metrics) RecordOrderCommitted(totalCents int64) {
	if m == nil {
		return
	}
	m.ordersCommitted.Inc()
	m.salesCents.Add(float64(totalCents))
}

// RecordCommitFailure counts a checkout whose storage commit failed.
func (m *Metrics) RecordCommitFailure() {
	if m == nil {
		return
	}
	m.commitFailures.Inc()
}

// RecordCheckoutDuration records one checkout's wall time.
func (m *Metrics) RecordCheckoutDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.checkoutDuration.Observe(d.Seconds())
}
