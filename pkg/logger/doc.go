// Package logger builds the slog loggers used across the controller
// stack: a JSON stdout logger, an optional Sentry fan-out for warnings
// and errors, and a no-op logger for tests and unconfigured setups.
//
// Context extractors inject request-scoped attributes (such as the
// current principal id) into every record at log time.
package logger
