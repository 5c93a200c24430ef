package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ardnew/movepad/controller"
	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/pkg"
)

const namespace = "movepad"

// durationBuckets brackets the scripted durations (110-140ms) with room for
// scheduler overshoot.
var durationBuckets = []float64{0.1, 0.11, 0.12, 0.13, 0.14, 0.15, 0.2, 0.5}

// Metrics implements [controller.Recorder] and [hid.Observer].
type Metrics struct {
	registry *prometheus.Registry
	textfile string

	presses  *prometheus.CounterVec
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sent     prometheus.Counter
	dropped  prometheus.Counter
	failed   prometheus.Counter
}

var (
	_ controller.Recorder = (*Metrics)(nil)
	_ hid.Observer        = (*Metrics)(nil)
)

// New creates the metric set. If textfile is not empty, Flush writes the
// registry there.
func New(textfile string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		presses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presses_total",
			Help:      "Debounced switch presses.",
		}, []string{"switch"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Completed actions.",
		}, []string{"action"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "script_duration_seconds",
			Help:      "Wall time of each move script.",
			Buckets:   durationBuckets,
		}, []string{"action"}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_sent_total",
			Help:      "Keyboard reports delivered to the backend.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_dropped_total",
			Help:      "Keyboard reports dropped because the host was not ready.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_errors_total",
			Help:      "Keyboard reports the backend failed to write.",
		}),
	}
	m.registry.MustRegister(m.presses, m.actions, m.duration, m.sent, m.dropped, m.failed)
	return m
}

// Registry returns the registry holding every movepad series.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SwitchPressed counts a debounced press on switch i.
func (m *Metrics) SwitchPressed(i int) {
	m.presses.WithLabelValues(strconv.Itoa(i)).Inc()
}

// ActionDone counts a completed action, observes the script duration, and
// flushes the textfile.
func (m *Metrics) ActionDone(a controller.Action, elapsed time.Duration) {
	m.actions.WithLabelValues(a.String()).Inc()
	if _, ok := a.Script(); ok {
		m.duration.WithLabelValues(a.String()).Observe(elapsed.Seconds())
	}
	if err := m.Flush(); err != nil {
		pkg.LogWarn(pkg.ComponentMetrics, "textfile not written",
			"path", m.textfile,
			"error", err)
	}
}

// ReportSent counts a delivered report.
func (m *Metrics) ReportSent() { m.sent.Inc() }

// ReportDropped counts a report dropped while the host was not ready.
func (m *Metrics) ReportDropped() { m.dropped.Inc() }

// ReportFailed counts a report the backend failed to write.
func (m *Metrics) ReportFailed(error) { m.failed.Inc() }

// Flush writes the registry to the textfile. It does nothing if no textfile
// was configured.
func (m *Metrics) Flush() error {
	if m.textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(m.textfile, m.registry)
}
