package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: FormatJSON, Output: &buf})

	logger.Debug().Str("key", "value").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v", entry["key"])
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: FormatJSON, Output: &buf})

	logger.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info written at warn level: %q", buf.String())
	}

	logger.Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn not written: %q", buf.String())
	}
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "loud", Format: FormatJSON, Output: &buf})

	logger.Debug().Msg("debug")
	logger.Info().Msg("info")

	out := buf.String()
	if strings.Contains(out, `"message":"debug"`) {
		t.Errorf("debug written with default level: %q", out)
	}
	if !strings.Contains(out, `"message":"info"`) {
		t.Errorf("info missing: %q", out)
	}
}

func TestNew_ConsoleWithoutTerminalHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: FormatConsole, Output: &buf})

	logger.Info().Msg("plain")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("unexpected ANSI escape in non-terminal output: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "plain") {
		t.Errorf("message missing: %q", buf.String())
	}
}

func TestComponent(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	Setup(Config{Level: "info", Format: FormatJSON, Output: &buf})

	log := Component("media")
	log.Info().Msg("probing")

	if !strings.Contains(buf.String(), `"component":"media"`) {
		t.Errorf("component field missing: %q", buf.String())
	}
}

func TestComponent_DefaultIsSilent(t *testing.T) {
	Reset()
	// must not panic and must not write anywhere
	log := Component("quiet")
	log.Error().Msg("nothing")
}
