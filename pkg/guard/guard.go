package guard

import "sync/atomic"

// Guard brackets scheduler mutation and tick processing.
//
// Enter and Leave surround every mutating scheduler call (start, stop,
// unregister, clear). BeginTick is called once at the top of tick
// processing; if it returns false the tick is skipped and EndTick is not
// called. If it returns true, EndTick is called when the tick completes.
type Guard interface {
	// Enter marks the start of a mutating scheduler call.
	Enter()

	// Leave marks the end of a mutating scheduler call.
	Leave()

	// BeginTick reports whether tick processing may proceed.
	BeginTick() bool

	// EndTick marks the end of tick processing. Called only after a
	// BeginTick that returned true.
	EndTick()
}

// None is the no-op strategy for single-context use.
type None struct{}

// NewNone returns the no-op guard.
func NewNone() *None {
	return &None{}
}

func (*None) Enter()          {}
func (*None) Leave()          {}
func (*None) BeginTick() bool { return true }
func (*None) EndTick()        {}

// Atomic is the non-blocking reentrancy-counter strategy.
//
// A tick observing a nonzero counter is skipped; the caller re-presents the
// elapsed ticks on the next cycle. The counter is peeked exactly once per
// tick, so this is a skip policy, not mutual exclusion.
type Atomic struct {
	pending atomic.Int32
}

// NewAtomic returns a reentrancy-counter guard.
func NewAtomic() *Atomic {
	return &Atomic{}
}

// Enter increments the mutation counter.
func (a *Atomic) Enter() {
	a.pending.Add(1)
}

// Leave decrements the mutation counter.
func (a *Atomic) Leave() {
	a.pending.Add(-1)
}

// BeginTick reports whether any mutation is in flight. Single peek.
func (a *Atomic) BeginTick() bool {
	return a.pending.Load() == 0
}

func (*Atomic) EndTick() {}

// Pending reports whether a mutation is currently in flight.
func (a *Atomic) Pending() bool {
	return a.pending.Load() != 0
}

// Mask is the exclusion strategy built on a caller-supplied disable/enable
// pair. On bare-metal ports the pair masks and unmasks the tick interrupt;
// hosted ports typically supply a mutex Lock/Unlock.
type Mask struct {
	disable func()
	enable  func()
}

// NewMask returns a masking guard using the given disable/enable pair.
// Both functions must be non-nil.
func NewMask(disable, enable func()) *Mask {
	if disable == nil || enable == nil {
		panic("guard: NewMask requires non-nil disable and enable functions")
	}
	return &Mask{disable: disable, enable: enable}
}

// Enter disables the tick source.
func (m *Mask) Enter() {
	m.disable()
}

// Leave re-enables the tick source.
func (m *Mask) Leave() {
	m.enable()
}

// BeginTick disables the tick source for the duration of the tick body,
// giving true mutual exclusion. It never skips.
func (m *Mask) BeginTick() bool {
	m.disable()
	return true
}

// EndTick re-enables the tick source.
func (m *Mask) EndTick() {
	m.enable()
}

// Compile-time interface satisfaction checks.
var (
	_ Guard = (*None)(nil)
	_ Guard = (*Atomic)(nil)
	_ Guard = (*Mask)(nil)
)
