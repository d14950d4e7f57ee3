// Package internaldefs exposes stable metric name and bucket definitions
// shared by exporter implementations.
//
// Counter and histogram definitions live here so that both the Prometheus
// and OTel exporters publish identical metric names and bucket boundaries.
// Changes to definitions in this package affect all exporters at once.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
