// Package timer defines the shared vocabulary for the dtimer scheduler.
//
// Timers are addressed by small integer handles (ID) into a fixed-capacity
// slot pool. Time is expressed in Ticks, an abstract monotonic unit supplied
// by the platform's tick source; the scheduler attaches no wall-clock meaning
// to it.
//
// # Sentinels
//
// Two reserved values carry "absent" meaning throughout the scheduler:
//
//   - NoTimer: the null handle. Returned by registration when the pool is
//     full, and stored in free slots.
//   - TicksInactive: a timer's delta while it is not in the active list.
//     A period equal to TicksInactive is not startable.
//
// NoActiveInterval is returned by time-to-next queries when no timer is
// armed. It aliases the same bit pattern as TicksInactive.
//
// # Capacity
//
// Pool capacity is fixed at construction and bounded by MaxCapacity. The
// bound follows from the 8-bit handle type: 255 is reserved for NoTimer.
package timer
