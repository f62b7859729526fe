// Package observability provides structured logging and metrics for the
// AI API service.
//
// This package implements:
//   - Structured logging with contextual fields (zap-based)
//   - Prometheus metrics for dispatch outcomes and provider attempts
package observability
