package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func compile(t *testing.T, source string) *Program {
	t.Helper()

	prog, err := Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", source, err)
	}

	return prog
}

// TestParsePrecedence pins operator binding through the canonical formatter:
// the formatted output spells out exactly the structure the parser built.
func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "logical is left-associative",
			input: "A && B || C",
			want:  "A && B || C\n",
		},
		{
			name:  "redundant parens drop",
			input: "(A || B) && C",
			want:  "A || B && C\n",
		},
		{
			name:  "necessary parens stay",
			input: "A && (B || C)",
			want:  "A && (B || C)\n",
		},
		{
			name:  "relational binds tighter than logical",
			input: "Foo > 1.2 && Bar <= 2.0",
			want:  "Foo > 1.2 && Bar <= 2.0\n",
		},
		{
			name:  "equality binds looser than relational",
			input: "{OSNAME} == 'linux'",
			want:  "{OSNAME} == 'linux'\n",
		},
		{
			name:  "set membership",
			input: "File::Spec in [0.80- !0.85 1.0]",
			want:  "File::Spec in [0.80- !0.85 1.0]\n",
		},
		{
			name:  "feature list",
			input: "Module::Build#(yaml_support && c_support)",
			want:  "Module::Build#(yaml_support && c_support)\n",
		},
		{
			name:  "builtin call",
			input: "HAS_LIB('z', 'ssl') && HAS_PROGRAM('make')",
			want:  "HAS_LIB('z', 'ssl') && HAS_PROGRAM('make')\n",
		},
		{
			name:  "xor",
			input: "A ^^ B",
			want:  "A ^^ B\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compile(t, tt.input).String()
			if got != tt.want {
				t.Errorf("formatted = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	prog := compile(t, `
		define recent = File::Spec > 0.80;

		choice backend = DBD::Pg as :pg || DBD::mysql as :mysql;

		{recent} && {backend}
	`)

	if len(prog.Defs) != 2 {
		t.Fatalf("parsed %d definitions, want 2", len(prog.Defs))
	}

	if prog.Defs[0].Kind != DefMacro || prog.Defs[0].Name != "recent" {
		t.Errorf("def 0 = %s %q, want define recent",
			prog.Defs[0].Kind, prog.Defs[0].Name)
	}

	if prog.Defs[1].Kind != DefChoice || prog.Defs[1].Name != "backend" {
		t.Errorf("def 1 = %s %q, want choice backend",
			prog.Defs[1].Kind, prog.Defs[1].Name)
	}

	if got := FormatExpr(prog.Master); got != "{recent} && {backend}" {
		t.Errorf("master = %q", got)
	}
}

func TestParseBuiltinVars(t *testing.T) {
	prog := compile(t, "{OSNAME} == 'linux' && {ITHREADS}")

	logical, ok := prog.Master.(*Logical)
	if !ok {
		t.Fatalf("master is %T, want *Logical", prog.Master)
	}

	eq, ok := logical.LHS.(*Equality)
	if !ok {
		t.Fatalf("LHS is %T, want *Equality", logical.LHS)
	}

	if v, ok := eq.LHS.(*BuiltinVar); !ok || v.Name != BuiltinOSName {
		t.Errorf("equality LHS = %#v, want BuiltinVar OSNAME", eq.LHS)
	}

	if v, ok := logical.RHS.(*BuiltinVar); !ok || v.Name != BuiltinIThreads {
		t.Errorf("logical RHS = %#v, want BuiltinVar ITHREADS", logical.RHS)
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog := compile(t, "# only a comment\n")

	lit, ok := prog.Master.(*BoolLit)
	if !ok || !lit.Value {
		t.Fatalf("master = %#v, want the literal true", prog.Master)
	}

	if got := prog.String(); got != "" {
		t.Errorf("formatted empty program = %q, want empty", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"statement after master", "Foo\ndefine x = Bar;"},
		{"two master expressions", "Foo Bar"},
		{"missing semicolon", "define x = Foo"},
		{"missing assignment", "define x Foo;"},
		{"feature list rejects or", "Foo#(a || b)"},
		{"feature list rejects comma", "Foo#(a, b)"},
		{"empty set", "Foo in []"},
		{"unterminated set", "Foo in [1.0"},
		{"set requires version or dash", "Foo in [x]"},
		{"dangling operator", "Foo &&"},
		{"unbalanced paren", "(Foo"},
		{"empty macro braces", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("Compile(%q) = nil error, want error", tt.input)
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error type = %T (%v), want *ParseError", err, err)
			}
		})
	}
}

// TestParseMalformedVersionPosition: a literal that scans as a version token
// but fails validation reports the token's line and column.
func TestParseMalformedVersionPosition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantPos string
	}{
		{"comparison operand", "Foo > 1..2", "1:7:"},
		{"range bound", "Foo in [1..2-2.0]", "1:9:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("Compile(%q) = nil error, want error", tt.input)
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error type = %T (%v), want *ParseError", err, err)
			}

			if !strings.HasPrefix(err.Error(), tt.wantPos) {
				t.Errorf("Error() = %q, want prefix %q", err.Error(), tt.wantPos)
			}
		})
	}
}

// TestParseRangeForms covers each spelling of a set range.
func TestParseRangeForms(t *testing.T) {
	prog := compile(t, "Foo in [1.0 1.0-2.0 -2.0 1.0- !1.5 !1.0-2.0 -]")

	member, ok := prog.Master.(*SetMembership)
	if !ok {
		t.Fatalf("master is %T, want *SetMembership", prog.Master)
	}

	if len(member.Set) != 7 {
		t.Fatalf("parsed %d ranges, want 7", len(member.Set))
	}

	const want = "[1.0 1.0-2.0 -2.0 1.0- !1.5 !1.0-2.0 -]"
	if got := member.Set.String(); got != want {
		t.Errorf("set = %q, want %q", got, want)
	}
}
