// Package otel provides an OpenTelemetry observer plugin for the scope
// library. It emits span events (activate, deactivate, flush, supersede)
// with low overhead.
package otel
