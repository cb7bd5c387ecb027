package ggedit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// building attributes for disabled levels.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the active logger. SetLogger may race with logging from
// export jobs, hence the atomic.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the diagnostic logger for ggedit and its
// sub-packages (export, persist, server). By default nothing is logged.
// Pass nil to restore the silent default.
//
// Log levels used by ggedit:
//   - [slog.LevelDebug]: state machine transitions, ignored shortcuts
//   - [slog.LevelInfo]: lifecycle events (store loaded, server started)
//   - [slog.LevelWarn]: abandoned drops, failed exports, failed autosaves
//
// Example:
//
//	ggedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger shared by ggedit packages.
// It is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
