// Package config loads declarative scheduler configurations from YAML.
//
// A configuration names the pool capacity, the guard strategy, and a set
// of timers with their periods and modes. Build turns a validated
// configuration into a live scheduler with every declared timer
// registered, returning the handles by name so the caller can attach
// meaning to them.
//
// Timer targets are code, not configuration: Build takes a TargetFunc
// that maps each declared timer to its dispatch target. The dtimer-sim
// command uses this to wire logging callbacks; embedders wire their own.
//
// The mask guard cannot be expressed in YAML - it needs a platform
// disable/enable pair - so configurations requesting it must supply the
// guard through BuildOptions.
package config
