package trace

// Logger is the interface applications implement to receive trace events.
// Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records a trace event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking stalls
	// the tick source.
	Log(event Event)
}

// NoopLogger discards all events. Use when capture is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// MultiLogger fans each event out to every logger in the slice, in
// order. Typical use pairs a FileLogger with a SlogAdapter so a run is
// both captured and visible live.
type MultiLogger []Logger

// NewMultiLogger builds a MultiLogger from the given loggers. Nil
// entries are dropped so callers can pass optional sinks directly.
func NewMultiLogger(loggers ...Logger) MultiLogger {
	multi := make(MultiLogger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			multi = append(multi, l)
		}
	}
	return multi
}

// Log forwards the event to every logger.
func (m MultiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}

// FilteredLogger forwards only the events matching its filter to the
// wrapped logger. It narrows capture at the source, before anything is
// written, unlike NewFilteredReader which narrows on playback.
type FilteredLogger struct {
	next   Logger
	filter Filter
}

// NewFilteredLogger wraps next so that only events accepted by filter
// reach it.
func NewFilteredLogger(next Logger, filter Filter) *FilteredLogger {
	return &FilteredLogger{next: next, filter: filter}
}

// Log forwards the event if it matches the filter.
func (l *FilteredLogger) Log(event Event) {
	if l.filter.matches(event) {
		l.next.Log(event)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = MultiLogger(nil)
	_ Logger = (*FilteredLogger)(nil)
)
