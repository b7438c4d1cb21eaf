package cli

import "testing"

// TestLogConfigScan verifies the early pre-parse pass picks up logger flags
// in each spelling kong would later accept.
func TestLogConfigScan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "assigned values",
			args: []string{"--log-level=debug", "--log-format=text"},
			want: logConfig{Level: "debug", Format: "text"},
		},
		{
			name: "separated values",
			args: []string{"--log-level", "warn", "check", "req.txt"},
			want: logConfig{Level: "warn"},
		},
		{
			name: "boolean bare",
			args: []string{"--log-pretty"},
			want: logConfig{Pretty: true},
		},
		{
			name: "boolean negated",
			args: []string{"--log-pretty", "--no-log-pretty"},
			want: logConfig{Pretty: false},
		},
		{
			name: "boolean assigned",
			args: []string{"--log-pretty=false"},
			want: logConfig{Pretty: false},
		},
		{
			name: "unrelated flags ignored",
			args: []string{"--env=env.yaml", "-w", "pg"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg logConfig

			cfg.scan(tt.args)

			if cfg.Level != tt.want.Level {
				t.Errorf("Level = %q, want %q", cfg.Level, tt.want.Level)
			}

			if cfg.Format != tt.want.Format {
				t.Errorf("Format = %q, want %q", cfg.Format, tt.want.Format)
			}

			if cfg.Pretty != tt.want.Pretty {
				t.Errorf("Pretty = %t, want %t", cfg.Pretty, tt.want.Pretty)
			}
		})
	}
}
