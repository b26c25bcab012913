package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("rule tables loaded", "general_rules", 12)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "rule tables loaded" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["general_rules"] != float64(12) {
		t.Errorf("general_rules = %v", entry["general_rules"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("low-severity entries were not filtered:\n%s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn entry missing:\n%s", out)
	}
}

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("default level should enable info")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default level should filter debug")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("New() with unknown level should fail")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() with unknown format should fail")
	}
}
