// Package guard provides the critical-section strategies that bracket
// mutation of the scheduler's pool and active list.
//
// The scheduler is driven from two directions: a single tick source calling
// Tick, and arbitrary contexts calling register/start/stop. A Guard decides
// how those two directions are kept from corrupting the delta list. Three
// strategies are provided:
//
//   - None: every operation is a no-op. Correct only when the scheduler is
//     driven from a single goroutine (typical in tests and simulators).
//   - Atomic: a reentrancy counter. Mutating calls increment on entry and
//     decrement on leave; a tick peeks the counter once at entry and is
//     skipped entirely if any mutation is in flight. The tick source is
//     never stalled, at the cost of occasionally dropping a tick cycle.
//   - Mask: a caller-supplied disable/enable pair (interrupt masking on
//     bare-metal ports, a mutex lock/unlock elsewhere). Gives true mutual
//     exclusion, bracketing the whole tick body as well as mutations.
//
// The Atomic skip is deliberately weaker than mutual exclusion: the counter
// is checked once at tick entry, not per list node, so a mutation beginning
// after the check races with the walk. Deployments that mutate from contexts
// which can preempt the tick source should use Mask.
package guard
