// Package middleware provides optional HTTP middleware for rekindle
// page servers: Prometheus metrics and OpenTelemetry tracing.
//
// Both are plain func(http.Handler) http.Handler values and compose
// with any chi or net/http stack:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus())
//	r.Use(middleware.OpenTelemetry())
package middleware
