package cmd

import (
	"context"
	"testing"
)

func TestFmtRun(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "simple requirement",
			input: "File::Spec > 0.80",
		},
		{
			name:  "statements",
			input: "define m = Foo;\nchoice c = Bar as :b;\n{m} && {c}",
		},
		{
			name:  "empty program",
			input: "# comments only\n",
		},
		{
			name:    "parse error",
			input:   "Foo &&",
			wantErr: true,
		},
		{
			name:    "undefined macro",
			input:   "{undefined}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtCmd := &Fmt{Source: writeFile(t, "req.txt", tt.input)}

			err := fmtCmd.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Fmt.Run() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestFmtRunMissingSource(t *testing.T) {
	fmtCmd := &Fmt{Source: "definitely/not/a/file.txt"}

	if err := fmtCmd.Run(context.Background()); err == nil {
		t.Errorf("Fmt.Run() = nil error, want error")
	}
}
