package trace

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want scheduler activity in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("kind", event.Kind.String()),
	}

	switch event.Kind {
	case KindTick, KindTickSkipped:
		attrs = append(attrs, slog.Uint64("elapsed", uint64(event.Ticks)))
	default:
		attrs = append(attrs, slog.Uint64("timer", uint64(event.TimerID)))
		if event.Name != "" {
			attrs = append(attrs, slog.String("name", event.Name))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "sched", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
