package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/prereq/lang"
	"github.com/ardnew/prereq/log"
)

// Fmt reprints a requirement source file in canonical form with normalized
// spacing and minimal parentheses.
type Fmt struct {
	Source string `arg:"" default:"-" help:"Requirement source file or '-' for stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := readSource(f.Source)
	if err != nil {
		return ErrReadSource.Wrap(err).
			With(slog.String("source", f.Source))
	}

	prog, err := lang.Compile(ctx, string(source),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	return prog.Format(stdout(ctx))
}
