// Package observability wires error reporting (Sentry), tracing
// (OpenTelemetry) and metrics (Prometheus) into the HTTP server.
//
// Every piece is optional: with no Sentry DSN and no trace exporter configured
// the initializers return no-op shutdown functions and the middleware still
// runs, so handlers never need to know whether observability is enabled.
package observability
