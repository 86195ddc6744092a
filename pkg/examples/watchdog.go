package examples

import (
	"errors"
	"sync/atomic"

	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// ErrNoFreeSlot is returned when the scheduler's pool is exhausted.
var ErrNoFreeSlot = errors.New("examples: no free timer slot")

// Watchdog trips a callback unless it is kicked within its timeout. It
// demonstrates the one-shot restart semantics: starting an armed timer
// rewinds it to a full period.
type Watchdog struct {
	s       *sched.Scheduler
	id      timer.ID
	tripped atomic.Bool
}

// NewWatchdog registers a one-shot timer on s that invokes onTrip after
// timeout ticks without a kick. The watchdog is not armed until the first
// Kick.
func NewWatchdog(s *sched.Scheduler, timeout timer.Ticks, onTrip func()) (*Watchdog, error) {
	w := &Watchdog{s: s}
	w.id = s.Register(dispatch.Callback(func() {
		w.tripped.Store(true)
		onTrip()
	}), timeout, false)
	if w.id == timer.NoTimer {
		return nil, ErrNoFreeSlot
	}
	return w, nil
}

// Kick rewinds the watchdog to a full timeout, arming it if necessary.
// A tripped watchdog is cleared and rearmed.
func (w *Watchdog) Kick() bool {
	if !w.s.Start(w.id, false) {
		return false
	}
	w.tripped.Store(false)
	return true
}

// Disarm stops the watchdog without freeing its slot.
// Returns false if it was not armed.
func (w *Watchdog) Disarm() bool {
	return w.s.Stop(w.id)
}

// Tripped reports whether the watchdog has expired and not been re-kicked.
func (w *Watchdog) Tripped() bool {
	return w.tripped.Load()
}

// Close frees the watchdog's timer slot.
func (w *Watchdog) Close() {
	w.s.Unregister(w.id)
}
