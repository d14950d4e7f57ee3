// Package prometheus renders keymint metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [keymint.Engine] and exposes an
// [http.Handler] that renders all counters and histograms. Counter names are
// prefixed keymint_*_total; the single histogram is
// keymint_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate engine state.
package prometheus
