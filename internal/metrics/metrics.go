// Package metrics exposes storefront counters and worker pool gauges in the
// Prometheus text format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/storefront/internal/domain"
	"github.com/dmitrymomot/storefront/pkg/async"
)

const namespace = "storefront"

// PoolStatser is implemented by *async.Pool.
type PoolStatser interface {
	Stats() async.PoolStats
}

// Metrics owns a private registry so tests and multiple instances never
// collide on the global one.
type Metrics struct {
	registry      *prometheus.Registry
	ordersPlaced  prometheus.Counter
	statusChanges *prometheus.CounterVec
	salesTax      prometheus.Counter
}

// New registers the order counters and Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed since start.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Order status updates by target status.",
		}, []string{"status"}),
		salesTax: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_tax_minor_units_total",
			Help:      "Sales tax charged on placed orders, in minor currency units.",
		}),
	}
	reg.MustRegister(
		m.ordersPlaced,
		m.statusChanges,
		m.salesTax,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, s := range domain.Statuses() {
		m.statusChanges.WithLabelValues(s.String())
	}
	return m
}

// OrderPlaced implements service.Recorder.
func (m *Metrics) OrderPlaced(o domain.Order) {
	m.ordersPlaced.Inc()
	m.salesTax.Add(float64(o.SalesTax))
}

// StatusChanged implements service.Recorder.
func (m *Metrics) StatusChanged(o domain.Order, _ domain.Status) {
	m.statusChanges.WithLabelValues(o.Status.String()).Inc()
}

// ObservePool exports the pool's live statistics as gauges.
func (m *Metrics) ObservePool(pool PoolStatser) {
	gauge := func(name, help string, value func(async.PoolStats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return value(pool.Stats()) })
	}
	m.registry.MustRegister(
		gauge("workers", "Configured worker goroutines.", func(s async.PoolStats) float64 { return float64(s.Workers) }),
		gauge("active_tasks", "Tasks currently running.", func(s async.PoolStats) float64 { return float64(s.Active) }),
		gauge("queued_tasks", "Tasks waiting for a worker.", func(s async.PoolStats) float64 { return float64(s.Queued) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "completed_tasks_total",
			Help:      "Tasks finished since start.",
		}, func() float64 { return float64(pool.Stats().Completed) }),
	)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
