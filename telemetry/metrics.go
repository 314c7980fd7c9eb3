// Package telemetry provides Prometheus metrics, correlation-id aware
// logging helpers, and OpenTelemetry tracing setup.
package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	MessagesSeen       prometheus.Counter
	CommandsDispatched prometheus.Counter
	CommandsSuppressed prometheus.Counter
	AutoResponses      prometheus.Counter
	Shoutouts          prometheus.Counter
	Catches            prometheus.Counter
	ShinyCatches       prometheus.Counter

	// Gauges
	QueueDepthGauge prometheus.Gauge
	DeathCountGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		MessagesSeen = promauto.NewCounter(prometheus.CounterOpts{Name: "flowerbot_messages_total", Help: "Chat messages received"})
		CommandsDispatched = promauto.NewCounter(prometheus.CounterOpts{Name: "flowerbot_commands_total", Help: "Commands parsed and dispatched"})
		CommandsSuppressed = promauto.NewCounter(prometheus.CounterOpts{Name: "flowerbot_commands_suppressed_total", Help: "Commands suppressed by the restricted-user limiter"})
		AutoResponses = promauto.NewCounter(prometheus.CounterOpts{Name: "flowerbot_auto_responses_total", Help: "Auto responses sent for exact-match messages"})
		Shoutouts = promauto.NewCounter(prometheus.CounterOpts{Name: "flowerbot_shoutouts_total", Help: "Automatic and manual shoutouts sent"})
		Catches = promauto.NewCounter(prometheus.CounterOpts{Name: "flowerbot_catches_total", Help: "Flowermon catches committed"})
		ShinyCatches = promauto.NewCounter(prometheus.CounterOpts{Name: "flowerbot_shiny_catches_total", Help: "Shiny flowermon catches"})
		QueueDepthGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "flowerbot_queue_depth", Help: "Users waiting across all queues"})
		DeathCountGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "flowerbot_death_count", Help: "Current death counter"})
	})
}

// IncCounter increments c if metrics are initialized.
func IncCounter(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// SetQueueDepth records the total membership across all queues.
func SetQueueDepth(n int) {
	if QueueDepthGauge != nil {
		QueueDepthGauge.Set(float64(n))
	}
}

// SetDeathCount mirrors the chat death counter into a gauge.
func SetDeathCount(n int) {
	if DeathCountGauge != nil {
		DeathCountGauge.Set(float64(n))
	}
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with a corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
