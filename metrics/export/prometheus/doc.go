// Package prometheus exports goSession metrics for Prometheus.
//
// [PrometheusExporter] renders the text exposition format directly. [Collector]
// implements prometheus.Collector for callers that already run a
// client_golang registry. Counter names are prefixed gosession_ and end in
// _total; latency histograms end in _seconds.
//
// Nothing here registers with the global default registry.
package prometheus
