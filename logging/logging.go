// Package logging provides the package-level *slog.Logger used by the
// NapisyTWON engine for debug output.
package logging

import (
	"io"
	"log/slog"
	"sync/atomic"
)

// discardHandler is the pre-Go-1.24 equivalent of slog.DiscardHandler.
var discardHandler = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1 << 30)})

// logger holds the engine-wide logger. Nil means discard.
var logger atomic.Pointer[slog.Logger]

// SetLogger configures the engine-wide logger. Pass nil to disable logging;
// pass a configured *slog.Logger to capture mutation and PDF-sync output.
//
// SetLogger is safe for concurrent use.
//
// Example enabling debug output to stderr:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
//
// Example capturing logs in tests:
//
//	handler := logging.NewCaptureHandler(nil)
//	logging.SetLogger(slog.New(handler))
//	// ... mutate annotations ...
//	fmt.Println(handler.String())
func SetLogger(sl *slog.Logger) {
	if sl == nil {
		logger.Store(slog.New(discardHandler))
	} else {
		logger.Store(sl)
	}
}

// Logger returns the engine-wide logger, or a discard logger when none has
// been set. Safe for concurrent use.
func Logger() *slog.Logger {
	l := logger.Load()
	if l == nil {
		l = slog.New(discardHandler)
		logger.Store(l)
	}
	return l
}
