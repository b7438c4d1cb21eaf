package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/prereq/lang"
	"github.com/ardnew/prereq/log"
	"github.com/ardnew/prereq/registry"
)

// Check compiles a requirement source file and evaluates it against an
// environment description, printing a classified report of every
// unsatisfied requirement.
type Check struct {
	Source string `arg:"" default:"-" help:"Requirement source file or '-' for stdin." name:"source"`

	Env   string   `help:"Environment description file (YAML)."                        short:"e" type:"existingfile"`
	With  []string `help:"Select a tagged alternative within choice definitions."      short:"w"`
	All   bool     `help:"Include failures that cannot be remedied locally."           short:"a"`
	Quiet bool     `help:"Suppress the report; reflect the result in exit status only." short:"q"`
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := readSource(c.Source)
	if err != nil {
		return ErrReadSource.Wrap(err).
			With(slog.String("source", c.Source))
	}

	prog, err := lang.Compile(ctx, string(source),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	store, err := c.environment()
	if err != nil {
		return ErrLoadEnvironment.Wrap(err).
			With(slog.String("env", c.Env))
	}

	ok, report, err := prog.Evaluate(ctx, lang.NewTagSet(c.With...), store.Env())
	if err != nil {
		return err
	}

	if !c.Quiet {
		c.render(stdout(ctx), ok, report)
	}

	if !ok {
		return ErrUnsatisfied.
			With(slog.Int("failures", len(report.Entries)))
	}

	return nil
}

// environment loads the registry named by --env, or an empty one describing
// a host with nothing installed.
func (c *Check) environment() (*registry.Static, error) {
	if c.Env == "" {
		return registry.New(registry.File{}), nil
	}

	return registry.Load(c.Env)
}

// render prints the evaluation verdict and report entries. Failures that
// cannot be remedied locally (wrong platform) are hidden unless --all is
// given: listing them would only suggest impossible fixes. On a satisfied
// result the report may still carry entries from unchosen OR alternatives,
// so nothing is printed unless --all asks for the full accounting.
func (c *Check) render(w io.Writer, ok bool, report *lang.Report) {
	if ok {
		fmt.Fprintln(w, okStyle.Render("requirements satisfied"))

		if c.All {
			c.renderEntries(w, report.Entries)
		}

		return
	}

	fmt.Fprintln(w, failStyle.Render("requirements not satisfied"))

	entries := report.Actionable()
	if c.All {
		entries = report.Entries
	}

	c.renderEntries(w, entries)

	if hidden := len(report.Entries) - len(entries); hidden > 0 {
		fmt.Fprintln(w, noteStyle.Render(
			fmt.Sprintf("(%d non-actionable failures hidden; use --all to show)",
				hidden),
		))
	}
}

func (c *Check) renderEntries(w io.Writer, entries []lang.Entry) {
	for _, e := range entries {
		mark := failStyle.Render("✗")
		if !e.Actionable {
			mark = noteStyle.Render("•")
		}

		fmt.Fprintf(w, "  %s %s: %s\n", mark, pathStyle.Render(e.Path), e.Detail)
	}
}
