package sched

import (
	"errors"
	"sync/atomic"

	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/guard"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// Scheduler errors.
var (
	ErrInvalidCapacity = errors.New("sched: capacity must be between 1 and timer.MaxCapacity")
)

// Hook observes list insertions, removals, or dispatches. Hooks run
// synchronously under the guard, including for insertions and removals
// performed by Tick, and must not call back into the scheduler.
type Hook func(id timer.ID)

// Scheduler is a fixed-capacity delta-queue timer scheduler.
//
// All storage is allocated by New; no operation allocates or blocks
// afterwards (the Mask guard excepted, whose disable/enable pair may
// block by design). Configure hooks before the scheduler is driven.
type Scheduler struct {
	g guard.Guard

	records []record
	list    deltaList

	enabled    atomic.Bool
	registered int

	insertHook   Hook
	removeHook   Hook
	dispatchHook Hook
}

// New creates a scheduler with the no-op guard, for single-context use.
func New(capacity int) (*Scheduler, error) {
	return NewWithGuard(capacity, guard.NewNone())
}

// NewWithGuard creates a scheduler protected by the given guard.
// Capacity must be between 1 and timer.MaxCapacity.
func NewWithGuard(capacity int, g guard.Guard) (*Scheduler, error) {
	if capacity < 1 || capacity > timer.MaxCapacity {
		return nil, ErrInvalidCapacity
	}
	if g == nil {
		g = guard.NewNone()
	}

	s := &Scheduler{
		g:       g,
		records: make([]record, capacity),
	}
	for i := range s.records {
		s.records[i].reset()
	}
	s.list = newDeltaList(s.records)
	return s, nil
}

// Capacity returns the fixed pool capacity.
func (s *Scheduler) Capacity() int {
	return len(s.records)
}

// RegisteredCount returns the number of registered timers.
func (s *Scheduler) RegisteredCount() int {
	return s.registered
}

// Register claims a free slot for target with the given period and mode.
// It returns timer.NoTimer, with no side effects, when the pool is full
// or the target is the zero value. The timer is created disarmed; call
// Start to arm it.
func (s *Scheduler) Register(target dispatch.Target, period timer.Ticks, repeating bool) timer.ID {
	if target.IsZero() {
		return timer.NoTimer
	}
	if s.registered >= len(s.records) {
		return timer.NoTimer
	}

	for i := range s.records {
		rec := &s.records[i]
		if rec.id == timer.NoTimer {
			rec.init(timer.ID(i), target, period, repeating)
			s.registered++
			return timer.ID(i)
		}
	}

	return timer.NoTimer
}

// Unregister destroys a timer and frees its slot. An armed timer is
// stopped first. Returns false for an invalid or unregistered handle.
func (s *Scheduler) Unregister(id timer.ID) bool {
	rec, ok := s.lookup(id)
	if !ok {
		return false
	}

	if rec.active() {
		s.g.Enter()
		s.list.remove(id, false)
		s.notifyRemove(id)
		s.g.Leave()
	}

	rec.reset()
	s.registered--
	return true
}

// Start arms a timer. With immediate set, the timer expires on the next
// tick; otherwise it expires after its full period. An already-armed
// timer is restarted. Returns false for an invalid handle, a timer
// whose period is the inactive sentinel, or a repeating timer with a
// zero period. A zero-period repeating timer would re-arm as due on
// every pass and Tick would never return; a zero-period one-shot is
// fine and fires on the next tick.
func (s *Scheduler) Start(id timer.ID, immediate bool) bool {
	rec, ok := s.lookup(id)
	if !ok {
		return false
	}
	if rec.period == timer.TicksInactive {
		return false
	}
	if rec.period == 0 && rec.repeating {
		return false
	}

	s.g.Enter()
	if rec.active() {
		s.list.remove(id, false)
		s.notifyRemove(id)
	}

	if immediate {
		rec.delta = 0
	} else {
		rec.delta = rec.period
	}
	s.list.insert(id)
	s.notifyInsert(id)
	s.g.Leave()

	return true
}

// Stop disarms a timer, leaving it registered. Stopping a timer that is
// not armed returns false and leaves the list unchanged.
func (s *Scheduler) Stop(id timer.ID) bool {
	rec, ok := s.lookup(id)
	if !ok {
		return false
	}
	if !rec.active() {
		return false
	}

	s.g.Enter()
	s.list.remove(id, false)
	s.notifyRemove(id)
	s.g.Leave()

	return true
}

// SetPeriod stops the timer and changes its period. The timer must be
// armed; the caller re-arms it for the new period to take effect.
func (s *Scheduler) SetPeriod(id timer.ID, period timer.Ticks) bool {
	if !s.Stop(id) {
		return false
	}
	s.records[id].period = period
	return true
}

// SetMode stops the timer and changes whether it repeats. The timer
// must be armed; the caller re-arms it for the new mode to take effect.
func (s *Scheduler) SetMode(id timer.ID, repeating bool) bool {
	if !s.Stop(id) {
		return false
	}
	s.records[id].repeating = repeating
	return true
}

// Tick advances time by elapsed ticks, dispatching every timer that
// comes due in expiry order. It returns false, consuming nothing, when
// the scheduler is disabled or the guard reports a mutation in flight;
// the caller must present the same elapsed ticks again.
func (s *Scheduler) Tick(elapsed timer.Ticks) bool {
	if !s.enabled.Load() {
		return false
	}
	if !s.g.BeginTick() {
		return false
	}
	defer s.g.EndTick()

	for !s.list.empty() && elapsed >= s.list.front().delta {
		rec := s.list.front()
		id := rec.id

		elapsed -= rec.delta

		s.list.remove(id, true)
		s.notifyRemove(id)

		s.notifyDispatch(id)
		rec.target.Invoke()

		if rec.repeating {
			rec.delta = rec.period
			s.list.insert(id)
			s.notifyInsert(id)
		}
	}

	if !s.list.empty() {
		// Partial progress toward the next expiry.
		s.list.front().delta -= elapsed
	}

	return true
}

// IsActive reports whether a timer is currently armed.
func (s *Scheduler) IsActive(id timer.ID) bool {
	rec, ok := s.lookup(id)
	return ok && rec.active()
}

// State returns where a timer is in its lifecycle.
func (s *Scheduler) State(id timer.ID) timer.State {
	rec, ok := s.lookup(id)
	switch {
	case !ok:
		return timer.StateUnregistered
	case rec.active():
		return timer.StateArmed
	default:
		return timer.StateRegistered
	}
}

// HasActiveTimer reports whether any timer is armed.
func (s *Scheduler) HasActiveTimer() bool {
	return !s.list.empty()
}

// TimeToNext returns the ticks until the next expiry, or
// timer.NoActiveInterval when nothing is armed.
func (s *Scheduler) TimeToNext() timer.Ticks {
	if s.list.empty() {
		return timer.NoActiveInterval
	}
	return s.list.front().delta
}

// Enable turns tick processing on or off. A disabled scheduler keeps
// its timers but refuses ticks.
func (s *Scheduler) Enable(on bool) {
	s.enabled.Store(on)
}

// IsRunning reports whether tick processing is enabled.
func (s *Scheduler) IsRunning() bool {
	return s.enabled.Load()
}

// Clear disarms and unregisters every timer.
func (s *Scheduler) Clear() {
	s.g.Enter()
	s.list.clear()
	s.g.Leave()

	for i := range s.records {
		s.records[i].reset()
	}
	s.registered = 0
}

// SetInsertHook sets the hook fired on every list insertion. Passing nil
// clears it.
func (s *Scheduler) SetInsertHook(hook Hook) {
	s.insertHook = hook
}

// SetRemoveHook sets the hook fired on every list removal. Passing nil
// clears it.
func (s *Scheduler) SetRemoveHook(hook Hook) {
	s.removeHook = hook
}

// SetDispatchHook sets the hook fired immediately before a due timer's
// target is invoked. Passing nil clears it.
func (s *Scheduler) SetDispatchHook(hook Hook) {
	s.dispatchHook = hook
}

// lookup validates a handle and returns its record.
func (s *Scheduler) lookup(id timer.ID) (*record, bool) {
	if int(id) >= len(s.records) {
		return nil, false
	}
	rec := &s.records[id]
	if rec.id == timer.NoTimer {
		return nil, false
	}
	return rec, true
}

func (s *Scheduler) notifyInsert(id timer.ID) {
	if s.insertHook != nil {
		s.insertHook(id)
	}
}

func (s *Scheduler) notifyRemove(id timer.ID) {
	if s.removeHook != nil {
		s.removeHook(id)
	}
}

func (s *Scheduler) notifyDispatch(id timer.ID) {
	if s.dispatchHook != nil {
		s.dispatchHook(id)
	}
}
