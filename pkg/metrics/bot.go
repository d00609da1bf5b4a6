package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BotMetrics records webhook, assistant, and order activity.
type BotMetrics struct {
	updates           *prometheus.CounterVec
	assistantDuration prometheus.Histogram
	assistantFailures prometheus.Counter
	ordersCreated     prometheus.Counter
}

// NewBotMetrics registers the bot metrics on the provided registerer.
func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	if reg == nil {
		return &BotMetrics{}
	}
	updates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Processed Telegram webhook updates by kind.",
	}, []string{"kind"})
	assistantDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_request_duration_seconds",
		Help:    "Duration of completion-service calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	assistantFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assistant_failures_total",
		Help: "Completion-service calls that failed or timed out.",
	})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully written.",
	})
	reg.MustRegister(updates, assistantDuration, assistantFailures, ordersCreated)
	return &BotMetrics{
		updates:           updates,
		assistantDuration: assistantDuration,
		assistantFailures: assistantFailures,
		ordersCreated:     ordersCreated,
	}
}

// IncUpdate counts one processed update of the given kind.
func (m *BotMetrics) IncUpdate(kind string) {
	if m == nil || m.updates == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.updates.WithLabelValues(kind).Inc()
}

// ObserveAssistant records the duration of one completion call.
func (m *BotMetrics) ObserveAssistant(duration time.Duration) {
	if m == nil || m.assistantDuration == nil {
		return
	}
	m.assistantDuration.Observe(duration.Seconds())
}

// IncAssistantFailure counts a failed completion call.
func (m *BotMetrics) IncAssistantFailure() {
	if m == nil || m.assistantFailures == nil {
		return
	}
	m.assistantFailures.Inc()
}

// IncOrderCreated counts a durably written order.
func (m *BotMetrics) IncOrderCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}
