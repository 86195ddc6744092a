// Package persistence stores scheduler snapshots on disk so a schedule
// can survive a process restart.
//
// Snapshots capture scheduling state only. Dispatch targets are code and
// must be registered again before restoring.
package persistence
