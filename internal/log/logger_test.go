package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: "storage",
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("opened database", "path", "/tmp/db")

	line := buf.String()
	if !strings.Contains(line, "component=storage") {
		t.Errorf("record missing component label: %s", line)
	}
	if !strings.Contains(line, "path=/tmp/db") {
		t.Errorf("caller args dropped: %s", line)
	}
}

func TestLoggerDefaultsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})

	logger.Warn("no component configured")

	if !strings.Contains(buf.String(), "component=app") {
		t.Errorf("expected fallback component label, got: %s", buf.String())
	}
}
