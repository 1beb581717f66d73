// Package logger provides a structured logging facility based on Zap.
//
// It builds a configured logger for the CLI commands and the HTTP server.
// Console encoding with second-precision timestamps is the default, since
// the sync loop is usually watched from a terminal; json is available for
// log shippers.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber
// context and attaches it to the log entry, so that all logs related to a
// specific request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Updating ads", zap.Int("count", n))
package logger
