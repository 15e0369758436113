package testutil

import "log/slog"

// DiscardLogger returns a slog.Logger that discards all output.
// Use in tests to silence component logging; for packages working with
// internal/log, log.NewNop() returns the same type.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
