// Package schedtest provides test support for validating scheduler state.
//
// The checks work on sched.Snapshot values, so they observe exactly the
// state a restore would see: the index-threaded arena, including the
// delta encoding and the prev/next chain.
package schedtest

import (
	"testing"

	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

const noTimer = uint8(timer.NoTimer)

// CheckInvariants fails the test if the scheduler's arena is structurally
// inconsistent: a broken prev/next chain, an armed record outside the
// chain, a chained record marked inactive, or a registered count that
// disagrees with the pool.
func CheckInvariants(t *testing.T, s *sched.Scheduler) {
	t.Helper()
	snap := s.Snapshot()

	chained := make(map[uint8]bool)

	if snap.Head == noTimer {
		if snap.Tail != noTimer {
			t.Fatalf("empty list has tail %d", snap.Tail)
		}
	} else {
		prev := noTimer
		id := snap.Head
		for id != noTimer {
			if int(id) >= len(snap.Slots) {
				t.Fatalf("chain references out-of-range slot %d", id)
			}
			if chained[id] {
				t.Fatalf("slot %d appears twice in the active chain", id)
			}
			chained[id] = true

			slot := snap.Slots[id]
			if slot.ID != id {
				t.Fatalf("chained slot %d carries id %d", id, slot.ID)
			}
			if slot.Prev != prev {
				t.Fatalf("slot %d prev = %d, want %d", id, slot.Prev, prev)
			}
			if timer.Ticks(slot.Delta) == timer.TicksInactive {
				t.Fatalf("chained slot %d is marked inactive", id)
			}
			prev = id
			id = slot.Next
		}
		if snap.Tail != prev {
			t.Fatalf("tail = %d, want %d", snap.Tail, prev)
		}
	}

	registered := 0
	for i, slot := range snap.Slots {
		if slot.ID != noTimer {
			registered++
		}
		armed := timer.Ticks(slot.Delta) != timer.TicksInactive
		if armed && !chained[uint8(i)] {
			t.Fatalf("slot %d is armed but not in the active chain", i)
		}
		if !armed && chained[uint8(i)] {
			t.Fatalf("slot %d is in the active chain but marked inactive", i)
		}
	}
	if registered != snap.Registered {
		t.Fatalf("registered count = %d, pool holds %d registered slots", snap.Registered, registered)
	}
}

// Remaining returns the true remaining ticks for an armed timer: the sum
// of deltas from the head up to and including the timer. The second
// return is false if the timer is not in the active chain.
func Remaining(snap sched.Snapshot, id timer.ID) (timer.Ticks, bool) {
	var sum timer.Ticks
	for cur := snap.Head; cur != noTimer; cur = snap.Slots[cur].Next {
		sum += timer.Ticks(snap.Slots[cur].Delta)
		if cur == uint8(id) {
			return sum, true
		}
	}
	return 0, false
}

// ActiveOrder returns the armed timer IDs from soonest to latest expiry.
func ActiveOrder(snap sched.Snapshot) []timer.ID {
	var order []timer.ID
	for cur := snap.Head; cur != noTimer; cur = snap.Slots[cur].Next {
		order = append(order, timer.ID(cur))
	}
	return order
}
