package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// CaptureHandler implements slog.Handler and keeps records in memory as
// JSON lines. Tests use it to assert on what the engine logged without
// writing to stderr.
type CaptureHandler struct {
	level    slog.Leveler
	mu       *sync.Mutex
	buffer   *bytes.Buffer
	preAttrs []slog.Attr
}

type captureEntry struct {
	Level    string   `json:"level"`
	Message  string   `json:"msg"`
	DateTime string   `json:"time"`
	Attrs    []string `json:"attrs,omitempty"`
}

// NewCaptureHandler returns a handler with an empty buffer. Pass nil to
// capture all levels, or HandlerOptions to filter by level.
func NewCaptureHandler(opts *slog.HandlerOptions) *CaptureHandler {
	h := &CaptureHandler{
		mu:     &sync.Mutex{},
		buffer: &bytes.Buffer{},
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled implements slog.Handler.
func (h *CaptureHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

// Handle implements slog.Handler, appending the record as one JSON line.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := captureEntry{
		Level:    r.Level.String(),
		Message:  r.Message,
		DateTime: r.Time.Format(time.DateTime),
	}
	for _, attr := range h.preAttrs {
		entry.Attrs = append(entry.Attrs, attr.String())
	}
	r.Attrs(func(attr slog.Attr) bool {
		entry.Attrs = append(entry.Attrs, attr.String())
		return true
	})

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	h.buffer.Write(data)
	h.buffer.WriteByte('\n')
	return nil
}

// WithAttrs implements slog.Handler. The derived handler shares the buffer.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &CaptureHandler{
		level:    h.level,
		mu:       h.mu,
		buffer:   h.buffer,
		preAttrs: append(append([]slog.Attr(nil), h.preAttrs...), attrs...),
	}
}

// WithGroup implements slog.Handler. Groups are not used by the engine's
// own logging; the group name is dropped.
func (h *CaptureHandler) WithGroup(string) slog.Handler {
	return h
}

// String returns everything captured so far.
func (h *CaptureHandler) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buffer.String()
}

// Contains reports whether any captured line contains the substring.
func (h *CaptureHandler) Contains(substr string) bool {
	return strings.Contains(h.String(), substr)
}

// Reset discards everything captured so far.
func (h *CaptureHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffer.Reset()
}
