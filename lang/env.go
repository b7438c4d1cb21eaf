package lang

import "context"

// Registry answers installed-module queries. Implementations may block on
// I/O; the evaluator calls them synchronously and honors the context only
// by passing it through. Lookup failure (module not installed, feature not
// exposed) is a normal answer, never an error; errors are reserved for
// infrastructure faults and surface as EvaluationError.
type Registry interface {
	// InstalledVersion reports whether the named module is installed and,
	// if so, at which version.
	InstalledVersion(ctx context.Context, name string) (Version, bool, error)

	// HasFeature reports whether the named installed module exposes the
	// named feature.
	HasFeature(ctx context.Context, name, feature string) (bool, error)
}

// Prober answers system probe queries backing the builtin functions.
type Prober interface {
	// HasInclude reports presence of a system include file.
	HasInclude(ctx context.Context, name string) (bool, error)

	// HasLib reports presence of a system library.
	HasLib(ctx context.Context, name string) (bool, error)

	// HasProgram reports presence of an executable program.
	HasProgram(ctx context.Context, name string) (bool, error)
}

// Environment is the complete collaborator set one evaluation runs against.
// The same compiled Program may be evaluated repeatedly against different
// environments, e.g. re-checked after the user installs a module.
type Environment struct {
	Registry Registry
	Probes   Prober

	// OSName is the value of {OSNAME}, e.g. "Linux" or "MSWin32".
	OSName string

	// IThreads is the value of {ITHREADS}.
	IThreads bool
}

// TagSet is the caller-supplied set of option tags selecting choice
// alternatives. Supplying a tag that no choice in the program declares is a
// SemanticError.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from tag names.
func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}

	return set
}

// Has reports membership of tag.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]

	return ok
}
