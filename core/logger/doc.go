// Package logger builds the structured zap logger used across the service.
//
// Warnings from validation and repair runs are logged at Warn level, hard
// failures at Error. HTTP handlers attach the request's ray ID with WithRayID
// so every line for a request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Error("Repair failed", zap.Error(err))
package logger
