// Package dispatch defines what the scheduler invokes when a timer expires.
//
// A Target is a tagged value constructed at registration time: either a
// zero-argument callback or a (router, destination, message) triple. The
// tag replaces the cast-based union the scheduler's ancestry used; the
// scheduler never inspects the variant, it only calls Invoke.
//
// Targets are plain values and may be copied freely. The zero Target is
// not invocable and is rejected at registration.
package dispatch
