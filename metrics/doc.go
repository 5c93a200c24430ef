// Package metrics counts switch presses, actions and HID reports.
//
// Counters live in a private [prometheus.Registry]. The controller has no
// network surface, so nothing serves them over HTTP; instead, when a textfile
// path is configured, the registry is rewritten after every action in the
// format read by the node exporter's textfile collector:
//
//	m := metrics.New("/var/lib/node_exporter/movepad.prom")
//	kb.SetObserver(m)
//	ctl, _ := controller.New(controller.Config{..., Recorder: m})
//
// Exported series (namespace movepad):
//
//	presses_total{switch}
//	actions_total{action}
//	reports_sent_total
//	reports_dropped_total
//	report_errors_total
//	script_duration_seconds{action}
package metrics
