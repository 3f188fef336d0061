package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/helixml/fundmatch/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewHandler_JSONWithCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, config.LogFormatJSON, "INFO"))

	ctx := WithCorrelationID(context.Background(), "req-42")
	logger.InfoContext(ctx, "match completed", "outcome", "match")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, buf.String())
	}
	if entry["correlation_id"] != "req-42" {
		t.Errorf("correlation_id = %v", entry["correlation_id"])
	}
	if entry["outcome"] != "match" {
		t.Errorf("outcome = %v", entry["outcome"])
	}
}

func TestNewHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, config.LogFormatJSON, "WARN"))

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record should be filtered")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn record should be written")
	}
}

func TestNew_UsesConfigFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewAppConfigWithOptions(config.WithLogFormat(config.LogFormatJSON))

	New(cfg, &buf).Info("hello")

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output, got %s", buf.String())
	}
}

func TestCorrelationID_Missing(t *testing.T) {
	if id := CorrelationID(context.Background()); id != "" {
		t.Errorf("CorrelationID() = %q, want empty", id)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped")
}
