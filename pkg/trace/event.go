package trace

import "time"

// Event is one scheduler activity record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the capture session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"3,keyasint"`

	// TimerID is the slot handle the event concerns. Meaningless for
	// tick events.
	TimerID uint8 `cbor:"4,keyasint,omitempty"`

	// Ticks carries the elapsed count for tick events and the time to
	// the next expiry after an insert.
	Ticks uint32 `cbor:"5,keyasint,omitempty"`

	// Name is the optional human-readable timer name, when the caller
	// registered one with the Recorder.
	Name string `cbor:"6,keyasint,omitempty"`
}

// Kind classifies a trace event.
type Kind uint8

const (
	// KindInsert records a timer entering the active list.
	KindInsert Kind = 0

	// KindRemove records a timer leaving the active list.
	KindRemove Kind = 1

	// KindDispatch records a timer's target being invoked.
	KindDispatch Kind = 2

	// KindTick records a processed tick and its elapsed count.
	KindTick Kind = 3

	// KindTickSkipped records a tick refused by the guard or a
	// disabled scheduler.
	KindTickSkipped Kind = 4
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "INSERT"
	case KindRemove:
		return "REMOVE"
	case KindDispatch:
		return "DISPATCH"
	case KindTick:
		return "TICK"
	case KindTickSkipped:
		return "TICK_SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// ParseKind resolves a kind name as printed by String.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "INSERT":
		return KindInsert, true
	case "REMOVE":
		return KindRemove, true
	case "DISPATCH":
		return KindDispatch, true
	case "TICK":
		return KindTick, true
	case "TICK_SKIPPED":
		return KindTickSkipped, true
	default:
		return 0, false
	}
}
