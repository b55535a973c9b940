package logging_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/marcindunin/NapisyTWON/logging"
)

func TestLogger_DefaultDiscards(t *testing.T) {
	logging.SetLogger(nil)
	l := logging.Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	// Must not panic and must not emit anywhere.
	l.Info("discarded")
}

func TestSetLogger_RoundTrip(t *testing.T) {
	handler := logging.NewCaptureHandler(nil)
	logging.SetLogger(slog.New(handler))
	defer logging.SetLogger(nil)

	logging.Logger().Info("mark written", slog.String("label", "5.1"))

	if !handler.Contains("mark written") {
		t.Errorf("captured output missing message: %q", handler.String())
	}
	if !handler.Contains("label=5.1") {
		t.Errorf("captured output missing attribute: %q", handler.String())
	}
}

func TestCaptureHandler_LevelFilter(t *testing.T) {
	handler := logging.NewCaptureHandler(&slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler)

	logger.Debug("too quiet")
	logger.Warn("loud enough")

	if handler.Contains("too quiet") {
		t.Error("debug record captured despite level filter")
	}
	if !handler.Contains("loud enough") {
		t.Error("warn record not captured")
	}
}

func TestCaptureHandler_WithAttrsSharesBuffer(t *testing.T) {
	handler := logging.NewCaptureHandler(nil)
	logger := slog.New(handler).With(slog.String("doc", "plan.pdf"))

	logger.Info("opened")

	out := handler.String()
	if !strings.Contains(out, "doc=plan.pdf") {
		t.Errorf("pre-set attribute missing: %q", out)
	}
}

func TestCaptureHandler_Reset(t *testing.T) {
	handler := logging.NewCaptureHandler(nil)
	slog.New(handler).Info("before reset")
	handler.Reset()

	if handler.String() != "" {
		t.Errorf("buffer not empty after reset: %q", handler.String())
	}
}
