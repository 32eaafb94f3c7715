// Package observability provides logging, metrics, and tracing hooks
// for the formula engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// EnrichLogger adds formula context to a logger.
// Returns a new logger with the formula_id field.
//
// Example:
//
//	enriched := EnrichLogger(logger, f.ID())
//	enriched.Info("parsing") // includes formula_id
func EnrichLogger(logger *slog.Logger, formulaID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("formula_id", formulaID))
}

// LogParseComplete logs a successful template scan.
func LogParseComplete(logger *slog.Logger, placeholders int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("template parsed",
		slog.Int("placeholders", placeholders),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogParseError logs a template scan failure.
func LogParseError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template parse failed",
		slog.String("error", err.Error()),
	)
}

// LogSubstituteComplete logs a successful substitution.
func LogSubstituteComplete(logger *slog.Logger, outputBytes, missing int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("template substituted",
		slog.Int("output_bytes", outputBytes),
		slog.Int("missing", missing),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSubstituteError logs a substitution failure.
func LogSubstituteError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template substitution failed",
		slog.String("error", err.Error()),
	)
}

// LogUndefinedName logs a placeholder with no definition.
func LogUndefinedName(logger *slog.Logger, name string, position int) {
	if logger == nil {
		return
	}
	logger.Debug("placeholder has no definition",
		slog.String("name", name),
		slog.Int("position", position),
	)
}
