// Package logging provides structured logging for Dolphin Core.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the ingester.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via LoggingConfig, optionally overridden by
// config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting ingester", "device_count", n)
//	logger.Error("rdb write failed", "error", err)
package logging
