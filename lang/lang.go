package lang

import (
	"context"

	"github.com/ardnew/prereq/log"
)

// Option configures compilation and evaluation behavior.
type Option func(*Program)

// options holds Program configuration.
type options struct {
	logger log.Logger
}

// WithLogger attaches a structured logger to the compiled program. The
// default is a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Program) {
		p.opts.logger = logger
	}
}

func applyOptions(p *Program, opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

// Compile lexes, parses, and resolves requirement source text into an
// immutable Program. Compilation either succeeds completely or aborts with
// a LexError, ParseError, or SemanticError; there is no partial result.
//
// An empty program is valid: its master expression is the literal true.
func Compile(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Program, error) {
	var staging Program

	applyOptions(&staging, opts...)

	toks, err := scan(source)
	if err != nil {
		return nil, err
	}

	defs, master, err := parse(toks)
	if err != nil {
		return nil, err
	}

	prog, err := resolve(defs, master)
	if err != nil {
		return nil, err
	}

	prog.opts = staging.opts

	prog.opts.logger.DebugContext(ctx, "compiled program",
		prog.logAttrs()...)

	return prog, nil
}
