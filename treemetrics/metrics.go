// Package treemetrics provides a prometheus-backed implementation of the
// engine's telemetry hooks. It is strictly observational: installing it
// changes no engine behavior, and the engine works identically without it.
package treemetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/treekit/tree"
)

// Hooks records range-query, index-resolution and child-load telemetry into
// prometheus collectors. It implements tree.Hooks.
type Hooks struct {
	rangeQueries   *prometheus.CounterVec
	rangeDuration  prometheus.Histogram
	rangeReturned  prometheus.Histogram
	visibleTotal   prometheus.Gauge
	resolveLatency *prometheus.HistogramVec
	childLoads     *prometheus.CounterVec
	childLoadSize  prometheus.Histogram
}

var _ tree.Hooks = (*Hooks)(nil)

// New builds the collectors and registers them with reg. Passing
// prometheus.DefaultRegisterer is the usual choice for binaries; tests pass
// their own registry.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		rangeQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "treekit",
			Name:      "range_queries_total",
			Help:      "Range queries served, by outcome.",
		}, []string{"outcome"}),
		rangeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "treekit",
			Name:      "range_query_seconds",
			Help:      "Wall time of range queries.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		rangeReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "treekit",
			Name:      "range_query_rows",
			Help:      "Views returned per range query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		visibleTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "treekit",
			Name:      "visible_nodes",
			Help:      "Current size of the visible projection.",
		}),
		resolveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "treekit",
			Name:      "index_resolve_seconds",
			Help:      "Latency of visible-index resolution.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{"outcome"}),
		childLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "treekit",
			Name:      "child_loads_total",
			Help:      "Completed child resolutions, by outcome.",
		}, []string{"outcome"}),
		childLoadSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "treekit",
			Name:      "child_load_children",
			Help:      "Children delivered per completed resolution.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	reg.MustRegister(
		h.rangeQueries, h.rangeDuration, h.rangeReturned,
		h.visibleTotal, h.resolveLatency,
		h.childLoads, h.childLoadSize,
	)
	return h
}

// RangeQueried implements tree.Hooks.
func (h *Hooks) RangeQueried(offset, limit, returned int, elapsed time.Duration) {
	outcome := "hit"
	if returned == 0 {
		outcome = "empty"
	}
	h.rangeQueries.WithLabelValues(outcome).Inc()
	h.rangeDuration.Observe(elapsed.Seconds())
	h.rangeReturned.Observe(float64(returned))
}

// VisibleCountChanged implements tree.Hooks.
func (h *Hooks) VisibleCountChanged(total int) {
	h.visibleTotal.Set(float64(total))
}

// IndexResolved implements tree.Hooks.
func (h *Hooks) IndexResolved(elapsed time.Duration, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "miss"
	}
	h.resolveLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ChildLoadCompleted implements tree.Hooks.
func (h *Hooks) ChildLoadCompleted(_ tree.NodeID, children int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.childLoads.WithLabelValues(outcome).Inc()
	if err == nil {
		h.childLoadSize.Observe(float64(children))
	}
}
