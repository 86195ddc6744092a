// Package trace provides machine-readable capture of scheduler activity.
//
// The scheduler core never logs; it exposes insert, remove, and dispatch
// hooks, and that is all a trace needs. A Recorder turns those touch
// points into Event records: armed, disarmed, dispatched, tick processed,
// tick skipped. Events flow to a Logger
// implementation; FileLogger writes CBOR to disk, SlogAdapter mirrors
// events to operational logging, and MultiLogger fans out to both.
//
// Each Recorder is stamped with a random session ID so traces from
// multiple schedulers or runs can share a file and still be separated
// when read back.
//
// # File Format
//
// Trace files are a plain concatenation of CBOR-encoded events with
// integer keys. Reader streams them back, optionally filtered. The
// dtimer-trace CLI tool provides listing, filtering, and JSON export.
package trace
