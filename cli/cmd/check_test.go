package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/prereq/lang"
)

const testEnvDoc = `
osname: linux
ithreads: true
modules:
  Module::Build:
    version: "0.42"
    features: [yaml_support, c_support]
  File::Spec:
    version: "0.90"
  DBD::Pg:
    version: "2.1"
probes:
  libs: [z]
  programs: [make]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestCheckRun(t *testing.T) {
	env := writeFile(t, "env.yaml", testEnvDoc)

	tests := []struct {
		name    string
		source  string
		with    []string
		wantErr bool
	}{
		{
			name:   "satisfied",
			source: "Module::Build#(yaml_support && c_support) && File::Spec > 0.80",
		},
		{
			name:    "unsatisfied",
			source:  "Missing::Mod",
			wantErr: true,
		},
		{
			name:   "choice selected",
			source: "choice db = DBD::Pg as :pg || DBD::mysql as :mysql;\n{db}",
			with:   []string{"pg"},
		},
		{
			name:    "choice unselected",
			source:  "choice db = DBD::Pg as :pg || DBD::mysql as :mysql;\n{db}",
			wantErr: true,
		},
		{
			name:   "probes and platform",
			source: "HAS_LIB('z') && HAS_PROGRAM('make') && {ITHREADS}",
		},
		{
			name:    "platform mismatch",
			source:  "{OSNAME} == 'MSWin32'",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := &Check{
				Source: writeFile(t, "req.txt", tt.source),
				Env:    env,
				With:   tt.with,
				Quiet:  true,
			}

			err := check.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Check.Run() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestCheckRunCompileError(t *testing.T) {
	check := &Check{
		Source: writeFile(t, "req.txt", "Foo &&"),
		Quiet:  true,
	}

	if err := check.Run(context.Background()); err == nil {
		t.Errorf("Check.Run() = nil error, want parse error")
	}
}

func TestCheckRunMissingSource(t *testing.T) {
	check := &Check{
		Source: filepath.Join(t.TempDir(), "nope.txt"),
		Quiet:  true,
	}

	err := check.Run(context.Background())
	if err == nil {
		t.Fatalf("Check.Run() = nil error, want error")
	}

	if !strings.Contains(err.Error(), "read source") {
		t.Errorf("error = %q, want read source failure", err.Error())
	}
}

// TestCheckRunEmptyEnvironment: without --env everything is absent, so any
// module requirement fails while an empty program still passes.
func TestCheckRunEmptyEnvironment(t *testing.T) {
	check := &Check{
		Source: writeFile(t, "req.txt", "File::Spec"),
		Quiet:  true,
	}

	if err := check.Run(context.Background()); err == nil {
		t.Errorf("Check.Run() = nil error, want unsatisfied")
	}

	check = &Check{
		Source: writeFile(t, "req.txt", "# nothing required\n"),
		Quiet:  true,
	}

	if err := check.Run(context.Background()); err != nil {
		t.Errorf("Check.Run() error = %v, want nil for empty program", err)
	}
}

func TestCheckRender(t *testing.T) {
	report := &lang.Report{Entries: []lang.Entry{
		{
			Path:       "Missing::Mod",
			Kind:       lang.KindMissingModule,
			Actionable: true,
			Detail:     "not installed",
		},
		{
			Path:   "{OSNAME}",
			Kind:   lang.KindPlatformMismatch,
			Detail: "linux == MSWin32 does not hold",
		},
	}}

	t.Run("hides non-actionable by default", func(t *testing.T) {
		var sb strings.Builder

		check := &Check{}
		check.render(&sb, false, report)

		out := sb.String()
		if !strings.Contains(out, "not satisfied") {
			t.Errorf("output %q missing verdict", out)
		}

		if !strings.Contains(out, "Missing::Mod") {
			t.Errorf("output %q missing actionable entry", out)
		}

		if strings.Contains(out, "MSWin32") {
			t.Errorf("output %q shows non-actionable entry", out)
		}

		if !strings.Contains(out, "1 non-actionable") {
			t.Errorf("output %q missing hidden-entry note", out)
		}
	})

	t.Run("all shows everything", func(t *testing.T) {
		var sb strings.Builder

		check := &Check{All: true}
		check.render(&sb, false, report)

		out := sb.String()
		if !strings.Contains(out, "MSWin32") {
			t.Errorf("output %q missing non-actionable entry", out)
		}
	})

	t.Run("satisfied prints verdict only", func(t *testing.T) {
		var sb strings.Builder

		check := &Check{}
		check.render(&sb, true, report)

		out := sb.String()
		if !strings.Contains(out, "requirements satisfied") {
			t.Errorf("output %q missing verdict", out)
		}

		if strings.Contains(out, "Missing::Mod") {
			t.Errorf("output %q shows entries on success", out)
		}
	})
}
