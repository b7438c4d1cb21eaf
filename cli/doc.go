// Package cli contains the command line interface for prereq.
//
// # Usage
//
// The CLI provides two subcommands plus logging and profiling configuration:
//
//	prereq check --env=environment.yaml requirements.txt
//	prereq fmt requirements.txt
//
// The check command compiles the requirement expressions in a source file,
// evaluates them against the environment described by --env, and prints a
// classified report of every unsatisfied requirement. Choice alternatives
// are selected with one or more --with tags:
//
//	prereq check --env=env.yaml --with=pg requirements.txt
//
// The fmt command reprints a source file in canonical form with normalized
// spacing and minimal parentheses.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/prereq/pprof)
package cli
