package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PollerMetrics records refresh-loop activity.
type PollerMetrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	notifications *prometheus.CounterVec
}

// NewPollerMetrics registers the poller metrics on the provided registerer.
func NewPollerMetrics(reg prometheus.Registerer) *PollerMetrics {
	if reg == nil {
		return &PollerMetrics{}
	}
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poll_cycles_total",
		Help: "Order refresh cycles by outcome.",
	}, []string{"outcome"})
	cycleDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "poll_cycle_duration_seconds",
		Help:    "Duration of one order refresh cycle in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poll_notifications_total",
		Help: "Status-change notifications emitted by the poller.",
	}, []string{"status"})
	reg.MustRegister(cycles, cycleDuration, notifications)
	return &PollerMetrics{
		cycles:        cycles,
		cycleDuration: cycleDuration,
		notifications: notifications,
	}
}

// IncCycle counts one finished refresh cycle.
func (p *PollerMetrics) IncCycle(outcome string) {
	if p == nil || p.cycles == nil {
		return
	}
	p.cycles.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveCycleDuration records how long a refresh cycle took.
func (p *PollerMetrics) ObserveCycleDuration(duration time.Duration) {
	if p == nil || p.cycleDuration == nil {
		return
	}
	p.cycleDuration.Observe(duration.Seconds())
}

// IncNotification counts one emitted status-change notification.
func (p *PollerMetrics) IncNotification(status string) {
	if p == nil || p.notifications == nil {
		return
	}
	p.notifications.WithLabelValues(normalizeLabel(status)).Inc()
}
