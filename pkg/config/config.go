package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// Configuration errors.
var (
	ErrInvalidCapacity = errors.New("config: capacity must be between 1 and 254")
	ErrUnknownGuard    = errors.New("config: unknown guard strategy")
	ErrDuplicateTimer  = errors.New("config: duplicate timer name")
	ErrUnnamedTimer    = errors.New("config: timer missing name")
	ErrTooManyTimers   = errors.New("config: more timers declared than capacity")
)

// GuardKind selects a concurrency guard strategy.
type GuardKind string

const (
	// GuardNone is the no-op guard for single-context use.
	GuardNone GuardKind = "none"

	// GuardAtomic is the non-blocking reentrancy-counter guard.
	GuardAtomic GuardKind = "atomic"

	// GuardMask is the masking guard; it requires a platform
	// disable/enable pair supplied at build time.
	GuardMask GuardKind = "mask"
)

// TimerDecl declares one timer in a configuration.
type TimerDecl struct {
	// Name identifies the timer to the application.
	Name string `yaml:"name"`

	// Period is the timer period in ticks.
	Period uint32 `yaml:"period"`

	// Repeating selects auto re-arm at expiry.
	Repeating bool `yaml:"repeating"`

	// Immediate arms the timer to expire on the first tick.
	Immediate bool `yaml:"immediate"`

	// Start arms the timer as soon as the scheduler is built.
	Start bool `yaml:"start"`

	// Message optionally routes a message instead of a callback.
	Message *MessageDecl `yaml:"message"`
}

// MessageDecl declares a message-dispatched timer target.
type MessageDecl struct {
	// ID is the message ID to route.
	ID uint32 `yaml:"id"`

	// Destination is the router ID to address; omitted means broadcast.
	Destination *uint8 `yaml:"destination"`

	// Payload is an opaque value delivered with the message.
	Payload string `yaml:"payload"`
}

// Config is a declarative scheduler configuration.
type Config struct {
	// Capacity is the fixed pool capacity.
	Capacity int `yaml:"capacity"`

	// Guard selects the concurrency guard strategy.
	Guard GuardKind `yaml:"guard"`

	// Enabled starts the scheduler with tick processing on.
	Enabled bool `yaml:"enabled"`

	// Timers declares the timer set.
	Timers []TimerDecl `yaml:"timers"`
}

// Default returns a single-context configuration with no timers.
func Default() Config {
	return Config{
		Capacity: 16,
		Guard:    GuardNone,
		Enabled:  true,
	}
}

// Parse parses and validates a YAML configuration.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: YAML parse error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks the configuration for structural errors.
func (c Config) Validate() error {
	if c.Capacity < 1 || c.Capacity > timer.MaxCapacity {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c.Capacity)
	}

	switch c.Guard {
	case GuardNone, GuardAtomic, GuardMask:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGuard, c.Guard)
	}

	if len(c.Timers) > c.Capacity {
		return fmt.Errorf("%w: %d timers, capacity %d", ErrTooManyTimers, len(c.Timers), c.Capacity)
	}

	seen := make(map[string]bool, len(c.Timers))
	for _, decl := range c.Timers {
		if decl.Name == "" {
			return ErrUnnamedTimer
		}
		if seen[decl.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateTimer, decl.Name)
		}
		seen[decl.Name] = true
	}
	return nil
}
