package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{AppEnv: "production", Log: config.LogConfig{Level: "warn", Format: "json"}}

	log := NewWithWriter(&buf, cfg)
	log.Info("hidden")
	log.Warn("visible", "appointment_id", 7)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "visible" || entry["service"] != serviceName || entry["env"] != "production" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
