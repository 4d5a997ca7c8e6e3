// Package telemetry stands up the OpenTelemetry tracer and meter
// providers for the process.
//
// Instrumented packages use the global otel.Tracer/otel.Meter API; this
// package installs the real providers behind them when telemetry is
// enabled, exporting over OTLP gRPC. Disabled (the default), everything
// stays no-op and the library adds no overhead. Exporter failures
// degrade telemetry rather than failing the application.
package telemetry
