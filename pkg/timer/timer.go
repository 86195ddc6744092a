package timer

import "math"

// ID is an opaque handle to a timer slot.
type ID uint8

// Ticks is an abstract unit of elapsed time reported by the tick source.
type Ticks uint32

// Reserved handle and tick values.
const (
	// NoTimer is the null timer handle.
	NoTimer ID = math.MaxUint8

	// MaxCapacity is the largest allowed pool capacity.
	MaxCapacity = 254

	// TicksInactive marks a timer that is not in the active list.
	TicksInactive Ticks = math.MaxUint32

	// NoActiveInterval is reported when no timer is armed.
	NoActiveInterval Ticks = math.MaxUint32
)

// State describes where a timer is in its lifecycle.
type State uint8

const (
	// StateUnregistered means the slot is free.
	StateUnregistered State = iota

	// StateRegistered means the timer exists but is not armed.
	StateRegistered

	// StateArmed means the timer is in the active list awaiting expiry.
	StateArmed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "UNREGISTERED"
	case StateRegistered:
		return "REGISTERED"
	case StateArmed:
		return "ARMED"
	default:
		return "UNKNOWN"
	}
}
