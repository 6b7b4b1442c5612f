package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "draft_client"
)

var (
	// ConnectAttempts counts transport opens, first connects and retries alike
	ConnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Total number of session transport opens",
		},
		[]string{"kind"}, // initial/reconnect
	)

	// RetryDelay observes the backoff chosen for each scheduled retry
	RetryDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retry_delay_seconds",
			Help:      "Backoff delay of scheduled reconnects",
			Buckets:   []float64{.5, 1, 2, 4, 8, 10},
		},
	)

	// FramesReceived counts decoded server notifications
	FramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Total number of server notifications by type",
		},
		[]string{"type"},
	)

	// FramesDropped counts frames that failed to parse or validate
	FramesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Total number of malformed or unknown server frames",
		},
	)

	// PicksDispatched counts pick commands handed to the transport
	PicksDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_dispatched_total",
			Help:      "Total number of pick commands sent",
		},
		[]string{"status"}, // sent/failed
	)

	// ActiveSessions tracks live controllers
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live session controllers",
		},
	)
)

func RecordConnect(reconnect bool) {
	kind := "initial"
	if reconnect {
		kind = "reconnect"
	}
	ConnectAttempts.WithLabelValues(kind).Inc()
}

func RecordRetry(delay time.Duration) {
	RetryDelay.Observe(delay.Seconds())
}

func RecordFrame(typ string) {
	FramesReceived.WithLabelValues(typ).Inc()
}

func RecordDropped() {
	FramesDropped.Inc()
}

func RecordPick(sent bool) {
	status := "sent"
	if !sent {
		status = "failed"
	}
	PicksDispatched.WithLabelValues(status).Inc()
}
