package lang

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func semanticError(t *testing.T, source string) *SemanticError {
	t.Helper()

	_, err := Compile(context.Background(), source)
	if err == nil {
		t.Fatalf("Compile(%q) = nil error, want error", source)
	}

	var semErr *SemanticError
	if !errors.As(err, &semErr) {
		t.Fatalf("error type = %T (%v), want *SemanticError", err, err)
	}

	return semErr
}

func TestResolveDuplicateName(t *testing.T) {
	err := semanticError(t, `
		define x = Foo;
		define x = Bar;
	`)

	if err.Name != "x" {
		t.Errorf("Name = %q, want %q", err.Name, "x")
	}
}

func TestResolveDuplicateAcrossKinds(t *testing.T) {
	semanticError(t, `
		define x = Foo;
		choice x = Bar as :b;
	`)
}

func TestResolveUndefinedReference(t *testing.T) {
	err := semanticError(t, `
		define Postgres = DBD::Pg;
		{Postgre}
	`)

	if err.Name != "Postgre" {
		t.Errorf("Name = %q, want %q", err.Name, "Postgre")
	}

	if err.Suggestion != "Postgres" {
		t.Errorf("Suggestion = %q, want %q", err.Suggestion, "Postgres")
	}

	if !strings.Contains(err.Error(), "did you mean") {
		t.Errorf("Error() = %q, want a suggestion", err.Error())
	}
}

func TestResolveUndefinedNoSuggestion(t *testing.T) {
	err := semanticError(t, "{zzz}")

	if err.Suggestion != "" {
		t.Errorf("Suggestion = %q, want none", err.Suggestion)
	}
}

func TestResolveCycle(t *testing.T) {
	err := semanticError(t, `
		define a = {b};
		define b = {a};
	`)

	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("Error() = %q, want the cycle path", err.Error())
	}
}

func TestResolveSelfCycle(t *testing.T) {
	semanticError(t, "define a = {a} && Foo;")
}

func TestResolveTagCollision(t *testing.T) {
	err := semanticError(t, `
		choice db = DBD::Pg as :pg || DBD::mysql as :my;
		choice cache = Redis as :pg;
	`)

	if err.Name != "pg" {
		t.Errorf("Name = %q, want %q", err.Name, "pg")
	}
}

func TestResolveTagOutsideChoice(t *testing.T) {
	semanticError(t, "define m = Foo as :x;")
	semanticError(t, "Foo as :x")
}

func TestResolveTags(t *testing.T) {
	prog := compile(t, `
		choice db = DBD::Pg as :pg || DBD::mysql as :my;
		choice cache = Redis as :redis;
	`)

	tags := prog.Tags()
	slices.Sort(tags)

	want := []string{"my", "pg", "redis"}
	if !slices.Equal(tags, want) {
		t.Errorf("Tags() = %v, want %v", tags, want)
	}

	if _, ok := prog.Definition("db"); !ok {
		t.Errorf("Definition(db) not found")
	}

	if _, ok := prog.Definition("nope"); ok {
		t.Errorf("Definition(nope) found, want absent")
	}
}

// TestResolveBuiltinsNeedNoDefinition verifies that the builtin environment
// names are never treated as macro references.
func TestResolveBuiltinsNeedNoDefinition(t *testing.T) {
	compile(t, "{OSNAME} == 'linux' && {ITHREADS}")
}

// TestResolveTagNamesWholeAlternative: a tag must label a whole choice
// alternative. A tag buried under a comparison or another tag could never be
// selected by pruning, so it is rejected at compile time.
func TestResolveTagNamesWholeAlternative(t *testing.T) {
	for _, source := range []string{
		"choice c = (Foo as :a) == 1.0;\n{c}",
		"choice c = Bar || (Foo as :a) >= 1.0;\n{c}",
		"choice c = (Foo as :a) in [1.0-];\n{c}",
		"choice c = (Foo as :a) as :b;\n{c}",
	} {
		err := semanticError(t, source)

		if !strings.Contains(err.Error(), "whole alternative") {
			t.Errorf("Compile(%q) error = %q, want whole-alternative message",
				source, err.Error())
		}
	}

	// A parenthesized alternative tagged as a whole is fine.
	prog := compile(t, "choice c = (Foo >= 1.0) as :a || Bar as :b;\n{c}")

	tags := prog.Tags()
	slices.Sort(tags)

	if want := []string{"a", "b"}; !slices.Equal(tags, want) {
		t.Errorf("Tags() = %v, want %v", tags, want)
	}
}
