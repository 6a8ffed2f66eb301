package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"vinylvault/internal/httpx"
	"vinylvault/internal/platform/logging"
)

func TestNewJSONIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := httpx.ContextWithRequestID(context.Background(), "req-42")
	logging.Component(logger, "catalog").InfoContext(ctx, "hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) {
		t.Fatalf("expected request id in %q", out)
	}
	if !strings.Contains(out, `"component":"catalog"`) {
		t.Fatalf("expected component in %q", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Fatalf("unexpected output %q", out)
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected error level enabled")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNop(t *testing.T) {
	if logging.NewNop().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should discard errors")
	}
}
