package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBotMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)

	m.IncUpdate("message")
	m.IncUpdate("message")
	m.IncUpdate("")
	m.IncOrderCreated()
	m.IncAssistantFailure()
	m.ObserveAssistant(120 * time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.updates.WithLabelValues("message")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.updates.WithLabelValues("unknown")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ordersCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.assistantFailures))
}

func TestBotMetricsNilSafe(t *testing.T) {
	var m *BotMetrics
	m.IncUpdate("message")
	m.IncOrderCreated()
	m.IncAssistantFailure()
	m.ObserveAssistant(time.Second)

	empty := NewBotMetrics(nil)
	empty.IncUpdate("message")
}
