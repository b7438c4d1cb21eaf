package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.cfg.level != LevelInfo {
		t.Errorf("expected default level Info, got %v", logger.cfg.level)
	}
	if logger.cfg.format != FormatJSON {
		t.Errorf("expected default format JSON, got %v", logger.cfg.format)
	}
	if logger.cfg.timeLayout != DefaultTimeLayout {
		t.Errorf("expected default time layout, got %q", logger.cfg.timeLayout)
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	logger2 := Make(&buf, WithLevel(LevelError))
	logger2.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger2.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Make_JSONFormat_EmitsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON))

	logger.Info("structured", slog.String("key", "value"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if record["msg"] != "structured" {
		t.Errorf("expected msg %q, got %v", "structured", record["msg"])
	}
	if record["key"] != "value" {
		t.Errorf("expected key %q, got %v", "value", record["key"])
	}
}

func TestLogger_Make_TextFormat_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithPretty(false))

	logger.Info("plain text", slog.Int("n", 7))

	output := buf.String()
	if !strings.Contains(output, "plain text") || !strings.Contains(output, "n=7") {
		t.Errorf("unexpected text output: %s", output)
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("plain text output contains ANSI escapes: %q", output)
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("dropped")
	logger.Error("dropped")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger Level() = %v, want default", logger.Level())
	}
}

func TestLogger_With_IncludesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf).With(slog.String("component", "eval"))

	logger.Info("message")

	if !strings.Contains(buf.String(), "eval") {
		t.Errorf("attribute missing from output: %s", buf.String())
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var first, second bytes.Buffer

	logger := Make(&first, WithLevel(LevelError))
	logger = logger.Wrap(WithLevel(LevelDebug), WithOutput(&second))

	logger.Debug("rerouted")

	if first.Len() != 0 {
		t.Errorf("original writer received output: %s", first.String())
	}
	if !strings.Contains(second.String(), "rerouted") {
		t.Errorf("wrapped writer missing output: %s", second.String())
	}
}

func TestDefault_ConfigApplies(t *testing.T) {
	var buf bytes.Buffer

	orig := Default()
	defer func() {
		defaultMu.Lock()
		defaultLogger = orig
		defaultMu.Unlock()
	}()

	Config(WithOutput(&buf), WithLevel(LevelDebug), WithFormat(FormatJSON))

	Debug("through default")

	if !strings.Contains(buf.String(), "through default") {
		t.Errorf("default logger missing output: %s", buf.String())
	}
}
