//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

// Version is the semantic version of the prereq module embedded at build
// time.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier used across the
	// project, appearing in help text and log output.
	Name = "prereq"
	// Description is a short, human-readable summary of the project used
	// in help output and documentation.
	Description = "Module requirement expression evaluator"
)
