// Package profile provides optional runtime profiling for the prereq
// command via [github.com/pkg/profile].
//
// Profiling is enabled at build time with the "pprof" build tag; without
// it every operation is a no-op with zero overhead. When enabled, the CLI
// exposes -pprof-mode and -pprof-dir flags, and [Modes] lists the
// supported profiling modes.
package profile
