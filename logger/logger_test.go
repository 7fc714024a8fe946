package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level info, got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format console, got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output stderr, got %q", cfg.Output)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "loud", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
	cfg = Config{Level: "debug", Format: "yaml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
	cfg = Config{Level: "debug", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := FromZerolog(zerolog.New(&buf))

	l.Info("shell uploaded", Fields("shell", "NutShell", "status", 201))

	out := buf.String()
	if !strings.Contains(out, `"shell":"NutShell"`) {
		t.Errorf("missing shell field in %q", out)
	}
	if !strings.Contains(out, `"status":201`) {
		t.Errorf("missing status field in %q", out)
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := FromZerolog(zerolog.New(&buf)).WithComponent("cloudshell")

	l.Debug("login ok")

	if !strings.Contains(buf.String(), `"component":"cloudshell"`) {
		t.Errorf("missing component field in %q", buf.String())
	}
}

func TestNop_Discards(t *testing.T) {
	// Must not panic and must produce no output.
	Nop().Error("dropped")
}

func TestFields_OddArgs(t *testing.T) {
	m := Fields("a", 1, "dangling")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("unexpected map %v", m)
	}
}
