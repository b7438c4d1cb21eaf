package lang

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

func TestFormatStatements(t *testing.T) {
	src := "define recent=File::Spec>0.80;choice backend=DBD::Pg as :pg||" +
		"DBD::mysql as :mysql;{recent}&&{backend}"

	want := "define recent = File::Spec > 0.80;\n" +
		"choice backend = DBD::Pg as :pg || DBD::mysql as :mysql;\n" +
		"{recent} && {backend}\n"

	if got := compile(t, src).String(); got != want {
		t.Errorf("formatted = %q, want %q", got, want)
	}
}

func TestFormatStringEscapes(t *testing.T) {
	prog := compile(t, `{OSNAME} == 'don\'t'`)

	const want = `{OSNAME} == 'don\'t'` + "\n"
	if got := prog.String(); got != want {
		t.Errorf("formatted = %q, want %q", got, want)
	}
}

// TestFormatIdempotent: formatting is a fixpoint after one pass.
func TestFormatIdempotent(t *testing.T) {
	sources := []string{
		"((A)) && (B || (C))",
		"define m = Foo#(a && b);\n{m} ^^ HAS_LIB('z')",
		"Foo in [1.0 !1.5-2.0 -3.0]",
	}

	for _, src := range sources {
		once := compile(t, src).String()
		twice := compile(t, once).String()

		if once != twice {
			t.Errorf("format not idempotent for %q: %q != %q", src, once, twice)
		}
	}
}

// exprGen builds random requirement source text whose evaluation is
// well-defined: relational and set operands only ever carry versions.
type exprGen struct {
	rnd *rand.Rand
}

func (g *exprGen) pick(options ...string) string {
	return options[g.rnd.Intn(len(options))]
}

func (g *exprGen) version() string {
	return fmt.Sprintf("%d.%d", g.rnd.Intn(3), g.rnd.Intn(100))
}

// module names a package from the small vocabulary the fake environment
// half-populates, so both outcomes occur.
func (g *exprGen) module() string {
	return g.pick("Alpha", "Beta", "Gamma::Delta", "Missing::One", "Missing::Two")
}

func (g *exprGen) comparable() string {
	if g.rnd.Intn(2) == 0 {
		return g.module()
	}

	return g.version()
}

func (g *exprGen) set() string {
	var sb strings.Builder

	sb.WriteByte('[')

	n := 1 + g.rnd.Intn(3)
	for i := range n {
		if i > 0 {
			sb.WriteByte(' ')
		}

		if g.rnd.Intn(3) == 0 {
			sb.WriteByte('!')
		}

		switch g.rnd.Intn(3) {
		case 0:
			sb.WriteString(g.version())
		case 1:
			sb.WriteString(g.version())
			sb.WriteByte('-')
		default:
			sb.WriteString(g.version())
			sb.WriteByte('-')
			sb.WriteString(g.version())
		}
	}

	sb.WriteByte(']')

	return sb.String()
}

func (g *exprGen) expr(depth int) string {
	if depth <= 0 {
		return g.leaf()
	}

	switch g.rnd.Intn(6) {
	case 0:
		return g.leaf()
	case 1:
		return fmt.Sprintf("(%s)", g.expr(depth-1))
	case 2:
		op := g.pick("&&", "||", "^^")

		return fmt.Sprintf("%s %s %s", g.expr(depth-1), op, g.expr(depth-1))
	case 3:
		op := g.pick("<", "<=", ">", ">=")

		return fmt.Sprintf("%s %s %s", g.comparable(), op, g.comparable())
	case 4:
		op := g.pick("==", "!=")

		return fmt.Sprintf("%s %s %s", g.comparable(), op, g.comparable())
	default:
		return fmt.Sprintf("%s in %s", g.module(), g.set())
	}
}

func (g *exprGen) leaf() string {
	switch g.rnd.Intn(4) {
	case 0:
		return g.module()
	case 1:
		return fmt.Sprintf("%s#(yaml_support && c_support)", g.module())
	case 2:
		return fmt.Sprintf("HAS_%s('%s')",
			g.pick("INCLUDE", "LIB", "PROGRAM"), g.pick("z", "ssl", "make"))
	default:
		return "{ITHREADS}"
	}
}

func formatEnv() *fakeEnv {
	return newFakeEnv("linux").
		install("Alpha", "1.50", "yaml_support", "c_support").
		install("Beta", "0.9", "yaml_support").
		install("Gamma::Delta", "2.0")
}

// TestFormatRoundTrip: for randomized programs, formatting then recompiling
// yields a program that formats and evaluates identically.
func TestFormatRoundTrip(t *testing.T) {
	gen := &exprGen{rnd: rand.New(rand.NewSource(1))}

	for i := range 200 {
		src := gen.expr(3)

		prog, err := Compile(context.Background(), src)
		if err != nil {
			t.Fatalf("iteration %d: Compile(%q) error = %v", i, src, err)
		}

		formatted := prog.String()

		again, err := Compile(context.Background(), formatted)
		if err != nil {
			t.Fatalf("iteration %d: recompile %q (from %q) error = %v",
				i, formatted, src, err)
		}

		if refmt := again.String(); refmt != formatted {
			t.Fatalf("iteration %d: format not stable: %q != %q",
				i, refmt, formatted)
		}

		ok1, rep1 := evaluate(t, prog, formatEnv())
		ok2, rep2 := evaluate(t, again, formatEnv())

		if ok1 != ok2 {
			t.Fatalf("iteration %d: %q evaluates %t, formatted %q evaluates %t",
				i, src, ok1, formatted, ok2)
		}

		if len(rep1.Entries) != len(rep2.Entries) {
			t.Fatalf("iteration %d: report sizes differ: %d != %d",
				i, len(rep1.Entries), len(rep2.Entries))
		}
	}
}
