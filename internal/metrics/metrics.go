// Package metrics exposes Prometheus counters for the reminder sweep and the
// event dialogue.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the scheduler and the assistant report to.
type Recorder interface {
	SweepCompleted(matched int, duration time.Duration)
	ReminderSent(kind string)
	ReminderFailed(kind string)
	EventCreated()
	EventDeleted()
	WizardOutcome(outcome string)
	StoreError(op string)
}

var _ Recorder = (*Collector)(nil)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	sweeps        prometheus.Counter
	sweepMatched  prometheus.Counter
	sweepDuration prometheus.Histogram
	sent          *prometheus.CounterVec
	failed        *prometheus.CounterVec
	created       prometheus.Counter
	deleted       prometheus.Counter
	wizard        *prometheus.CounterVec
	storeErrors   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remindme_sweeps_total",
			Help: "Completed reminder sweeps.",
		}),
		sweepMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remindme_sweep_matched_events_total",
			Help: "Events whose notify time matched a sweep.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "remindme_sweep_duration_seconds",
			Help:    "Wall time of a reminder sweep.",
			Buckets: prometheus.DefBuckets,
		}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remindme_reminders_sent_total",
			Help: "Reminders delivered, by kind.",
		}, []string{"kind"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remindme_reminders_failed_total",
			Help: "Reminder deliveries that failed, by kind.",
		}, []string{"kind"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remindme_events_created_total",
			Help: "Events created through the dialogue.",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remindme_events_deleted_total",
			Help: "Events deleted by their owners.",
		}),
		wizard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remindme_wizard_outcomes_total",
			Help: "Event dialogue turns, by outcome.",
		}, []string{"outcome"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remindme_store_errors_total",
			Help: "Event store failures, by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(
		c.sweeps,
		c.sweepMatched,
		c.sweepDuration,
		c.sent,
		c.failed,
		c.created,
		c.deleted,
		c.wizard,
		c.storeErrors,
	)
	return c
}

func (c *Collector) SweepCompleted(matched int, duration time.Duration) {
	c.sweeps.Inc()
	c.sweepMatched.Add(float64(matched))
	c.sweepDuration.Observe(duration.Seconds())
}

func (c *Collector) ReminderSent(kind string)     { c.sent.WithLabelValues(kind).Inc() }
func (c *Collector) ReminderFailed(kind string)   { c.failed.WithLabelValues(kind).Inc() }
func (c *Collector) EventCreated()                { c.created.Inc() }
func (c *Collector) EventDeleted()                { c.deleted.Inc() }
func (c *Collector) WizardOutcome(outcome string) { c.wizard.WithLabelValues(outcome).Inc() }
func (c *Collector) StoreError(op string)         { c.storeErrors.WithLabelValues(op).Inc() }

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) SweepCompleted(int, time.Duration) {}
func (Nop) ReminderSent(string)               {}
func (Nop) ReminderFailed(string)             {}
func (Nop) EventCreated()                     {}
func (Nop) EventDeleted()                     {}
func (Nop) WizardOutcome(string)              {}
func (Nop) StoreError(string)                 {}
