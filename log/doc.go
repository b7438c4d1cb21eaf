// Package log wraps log/slog with this project's logging conventions:
// a Logger value type whose zero value discards everything, functional
// configuration options, JSON and (optionally colorized) text formats,
// and a reconfigurable package-level default used by the CLI.
package log
