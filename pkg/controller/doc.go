// Package controller contains HTTP middlewares and helper handlers used by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds CORS headers for browser clients and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context, echoes the ID and logs access info.
//   - WithMetrics: Records request latency in an otel histogram labeled by route pattern.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers, including named profiles.
//   - RequestIDFromContext: Returns the request ID attached by WithLogger.
package controller
