// Package examples provides reference timer arrangements demonstrating how
// to build on the scheduler library.
//
// The examples show:
//   - Target construction (callback and broadcast message timers)
//   - One-shot restart semantics (watchdog kick)
//   - Repeating timers driving a message broker
//
// They can serve as templates for embedding the scheduler in real
// applications.
package examples
