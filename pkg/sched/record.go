package sched

import (
	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// record is one slot in the pool. A free slot carries id == timer.NoTimer;
// a registered slot's id equals its own index.
type record struct {
	id        timer.ID
	period    timer.Ticks
	delta     timer.Ticks
	repeating bool
	prev      timer.ID
	next      timer.ID
	target    dispatch.Target
}

// active reports whether the record is in the active list.
func (r *record) active() bool {
	return r.delta != timer.TicksInactive
}

// setInactive marks the record as not in the active list.
func (r *record) setInactive() {
	r.delta = timer.TicksInactive
}

// reset returns the slot to the free state.
func (r *record) reset() {
	*r = record{
		id:    timer.NoTimer,
		delta: timer.TicksInactive,
		prev:  timer.NoTimer,
		next:  timer.NoTimer,
	}
}

// init populates a free slot for a newly registered timer.
func (r *record) init(id timer.ID, target dispatch.Target, period timer.Ticks, repeating bool) {
	*r = record{
		id:        id,
		period:    period,
		delta:     timer.TicksInactive,
		repeating: repeating,
		prev:      timer.NoTimer,
		next:      timer.NoTimer,
		target:    target,
	}
}
