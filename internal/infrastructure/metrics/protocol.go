package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type ProtocolMetrics struct {
	commands     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	transfers    *prometheus.CounterVec
	transferred  *prometheus.CounterVec
	emitFailures prometheus.Counter
	idempReplays *prometheus.CounterVec
}

var (
	protocolOnce     sync.Once
	protocolRegistry *ProtocolMetrics
)

// Protocol returns the process-wide collectors, registering them on first use.
func Protocol() *ProtocolMetrics {
	protocolOnce.Do(func() {
		protocolRegistry = &ProtocolMetrics{
			commands: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lend_commands_total",
				Help: "Protocol commands by name and outcome (ok or error kind).",
			}, []string{"command", "outcome"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "lend_command_duration_seconds",
				Help:    "Time spent executing a protocol command including its transaction.",
				Buckets: prometheus.DefBuckets,
			}, []string{"command"}),
			transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lend_effects_total",
				Help: "Committed effects by kind and reason.",
			}, []string{"kind", "reason"}),
			transferred: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lend_funds_transferred_total",
				Help: "Sum of committed fund transfers by reason, in the smallest currency unit.",
			}, []string{"reason"}),
			emitFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lend_event_emit_failures_total",
				Help: "Batches of committed events that could not be published.",
			}),
			idempReplays: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lend_idempotency_total",
				Help: "Idempotency middleware decisions by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			protocolRegistry.commands,
			protocolRegistry.duration,
			protocolRegistry.transfers,
			protocolRegistry.transferred,
			protocolRegistry.emitFailures,
			protocolRegistry.idempReplays,
		)
	})
	return protocolRegistry
}

func (m *ProtocolMetrics) ObserveCommand(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.commands.WithLabelValues(command, outcome).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *ProtocolMetrics) ObserveEffect(kind, reason string, amount uint64) {
	if m == nil {
		return
	}
	m.transfers.WithLabelValues(kind, reason).Inc()
	if amount > 0 {
		m.transferred.WithLabelValues(reason).Add(float64(amount))
	}
}

func (m *ProtocolMetrics) ObserveEmitFailure() {
	if m == nil {
		return
	}
	m.emitFailures.Inc()
}

func (m *ProtocolMetrics) ObserveIdempotency(outcome string) {
	if m == nil {
		return
	}
	m.idempReplays.WithLabelValues(outcome).Inc()
}
