// Package telemetry provides observability for Ganymede: structured
// logging (telemetry/logging) and Prometheus metrics with textfile export
// (telemetry/metrics).
package telemetry
