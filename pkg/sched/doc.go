// Package sched implements a fixed-capacity, delta-queue timer scheduler.
//
// The scheduler owns a pool of timer slots allocated once at construction.
// Armed timers live in an intrusive doubly linked list threaded through the
// pool by slot index, sorted by expiry and delta-encoded: each entry stores
// only the ticks between it and its predecessor, so advancing time is a
// single subtraction at the list head and expiry processing pops the head
// while its delta is covered by the elapsed ticks. No memory is allocated
// after construction and no operation blocks.
//
// # Driving the scheduler
//
// The scheduler never creates goroutines. An external tick source calls
// Tick with the ticks elapsed since the last processed tick; registration
// and arm/disarm calls may come from any other context. How the two sides
// are kept apart is decided by the guard.Guard chosen at construction: see
// that package for the none/atomic/mask trade-offs. When Tick returns
// false the elapsed ticks were not consumed and must be presented again.
//
// # Expiry order
//
// Timers dispatch in non-decreasing true-expiry order. At an exact tie the
// most recently armed timer dispatches first. Each expiry is processed as
// {unlink, remove hook, dispatch hook, invoke target, re-arm if repeating};
// a repeating timer's target therefore observes the timer as not yet
// re-armed during its own invocation.
//
// # Hooks
//
// Insert and remove hooks fire synchronously on every list insertion and
// removal, including those performed internally by Tick; the dispatch hook
// fires before each due timer's target is invoked. Hooks run under the
// guard and must not call back into the scheduler.
package sched
