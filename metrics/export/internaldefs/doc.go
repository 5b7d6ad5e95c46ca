// Package internaldefs holds the metric names and bucket boundaries shared by
// the exporters, so the Prometheus and OTel outputs stay identical.
//
// It performs no I/O and imports no exporter package.
package internaldefs
