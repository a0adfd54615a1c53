// Package telemetry reports workflow outcomes to metrics, logs, and the
// external analytics/alerting sinks. Everything here is best-effort and
// never blocks or fails the request path.
package telemetry

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammad-safakhou/askgate/config"
)

// Event summarizes one completed ask workflow.
type Event struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id,omitempty"`
	Plan          string        `json:"plan"`
	UsedTools     []string      `json:"used_tools"`
	TimedOutTools []string      `json:"timed_out_tools"`
	ErroredTools  []string      `json:"errored_tools"`
	TokensUsed    int64         `json:"tokens_used"`
	Latency       time.Duration `json:"latency"`
	Success       bool          `json:"success"`
	Error         string        `json:"error,omitempty"`
}

// Sink receives analytics events.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// AlertSink receives operational failure notifications.
type AlertSink interface {
	Notify(ctx context.Context, message string) error
}

// Telemetry fans events out to prometheus, the log, and the sinks.
type Telemetry struct {
	config config.TelemetryConfig
	logger *log.Logger
	sink   Sink
	alerts AlertSink

	requests     *prometheus.CounterVec
	toolOutcomes *prometheus.CounterVec
	latency      prometheus.Histogram

	mu         sync.Mutex
	totalAsks  int64
	totalFails int64
}

// New registers the workflow metrics and wires the sinks. Either sink may
// be nil, which disables that destination.
func New(cfg config.TelemetryConfig, sink Sink, alerts AlertSink, reg prometheus.Registerer) *Telemetry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	t := &Telemetry{
		config: cfg,
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		sink:   sink,
		alerts: alerts,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "askgate_requests_total",
			Help: "Completed ask workflows by plan and outcome.",
		}, []string{"plan", "outcome"}),
		toolOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "askgate_tool_outcomes_total",
			Help: "Tool invocations by tool id and outcome.",
		}, []string{"tool", "outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "askgate_request_latency_seconds",
			Help:    "Wall-clock ask workflow latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(t.requests, t.toolOutcomes, t.latency)
	return t
}

// RecordAskEvent records one workflow outcome. The analytics dispatch runs
// on its own goroutine; sink errors are logged and dropped.
func (t *Telemetry) RecordAskEvent(ctx context.Context, event Event) {
	if !t.config.Enabled {
		return
	}

	outcome := "success"
	if !event.Success {
		outcome = "failure"
	}
	t.requests.WithLabelValues(event.Plan, outcome).Inc()
	t.latency.Observe(event.Latency.Seconds())
	for _, id := range event.UsedTools {
		t.toolOutcomes.WithLabelValues(id, "used").Inc()
	}
	for _, id := range event.TimedOutTools {
		t.toolOutcomes.WithLabelValues(id, "timeout").Inc()
	}
	for _, id := range event.ErroredTools {
		t.toolOutcomes.WithLabelValues(id, "error").Inc()
	}

	t.mu.Lock()
	t.totalAsks++
	if !event.Success {
		t.totalFails++
	}
	t.mu.Unlock()

	t.logger.Printf("Ask Event: ID=%s, Plan=%s, Success=%t, Latency=%v, Tools=%v",
		event.ID, event.Plan, event.Success, event.Latency, event.UsedTools)

	if t.sink != nil {
		go func() {
			sinkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.sink.Record(sinkCtx, event); err != nil {
				t.logger.Printf("analytics sink failed: %v", err)
			}
		}()
	}
}

// Alert notifies the alert sink about an operational failure without
// waiting for delivery.
func (t *Telemetry) Alert(ctx context.Context, message string) {
	if !t.config.Enabled || t.alerts == nil {
		return
	}
	go func() {
		alertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := t.alerts.Notify(alertCtx, message); err != nil {
			t.logger.Printf("alert sink failed: %v", err)
		}
	}()
}

// Totals reports lifetime ask and failure counts.
func (t *Telemetry) Totals() (asks, failures int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalAsks, t.totalFails
}
