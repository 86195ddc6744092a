package config

import (
	"errors"
	"fmt"

	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/guard"
	"github.com/dtimer-project/dtimer-go/pkg/router"
	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// Build errors.
var (
	ErrMaskGuardNeedsPair = errors.New("config: mask guard requires a guard supplied in BuildOptions")
	ErrNoTarget           = errors.New("config: no dispatch target for timer")
	ErrRegisterFailed     = errors.New("config: registration failed")
)

// TargetFunc maps a declared timer to its dispatch target. It is not
// consulted for timers carrying a message declaration when a Router is
// configured.
type TargetFunc func(decl TimerDecl) dispatch.Target

// BuildOptions supplies the pieces a Config cannot declare.
type BuildOptions struct {
	// Target maps declared timers to callbacks.
	Target TargetFunc

	// Router receives message-declared timers. Required if any timer
	// declares a message.
	Router router.Router

	// Guard overrides the configured guard strategy. Required when the
	// configuration requests the mask guard.
	Guard guard.Guard
}

// Build constructs a scheduler from a validated configuration, registers
// every declared timer, and arms those declared with start. It returns
// the timer handles by name.
func Build(cfg Config, opts BuildOptions) (*sched.Scheduler, map[string]timer.ID, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	g, err := buildGuard(cfg.Guard, opts.Guard)
	if err != nil {
		return nil, nil, err
	}

	s, err := sched.NewWithGuard(cfg.Capacity, g)
	if err != nil {
		return nil, nil, err
	}

	handles := make(map[string]timer.ID, len(cfg.Timers))
	for _, decl := range cfg.Timers {
		target, err := buildTarget(decl, opts)
		if err != nil {
			return nil, nil, err
		}

		id := s.Register(target, timer.Ticks(decl.Period), decl.Repeating)
		if id == timer.NoTimer {
			return nil, nil, fmt.Errorf("%w: %q", ErrRegisterFailed, decl.Name)
		}
		handles[decl.Name] = id

		if decl.Start && !s.Start(id, decl.Immediate) {
			return nil, nil, fmt.Errorf("config: start %q: period is not startable", decl.Name)
		}
	}

	s.Enable(cfg.Enabled)
	return s, handles, nil
}

func buildGuard(kind GuardKind, supplied guard.Guard) (guard.Guard, error) {
	if supplied != nil {
		return supplied, nil
	}
	switch kind {
	case GuardNone:
		return guard.NewNone(), nil
	case GuardAtomic:
		return guard.NewAtomic(), nil
	case GuardMask:
		return nil, ErrMaskGuardNeedsPair
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGuard, kind)
	}
}

func buildTarget(decl TimerDecl, opts BuildOptions) (dispatch.Target, error) {
	if decl.Message != nil && opts.Router != nil {
		dest := router.AllRouters
		if decl.Message.Destination != nil {
			dest = router.RouterID(*decl.Message.Destination)
		}
		msg := router.Message{
			ID:      router.MessageID(decl.Message.ID),
			Payload: decl.Message.Payload,
		}
		return dispatch.Message(opts.Router, dest, msg), nil
	}

	if opts.Target != nil {
		if target := opts.Target(decl); !target.IsZero() {
			return target, nil
		}
	}
	return dispatch.Target{}, fmt.Errorf("%w: %q", ErrNoTarget, decl.Name)
}
