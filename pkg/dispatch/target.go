package dispatch

import "github.com/dtimer-project/dtimer-go/pkg/router"

// Kind tags the target variant.
type Kind uint8

const (
	// KindNone is the zero, non-invocable target.
	KindNone Kind = iota

	// KindCallback invokes a zero-argument function.
	KindCallback

	// KindMessage routes a message to a destination router.
	KindMessage
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindCallback:
		return "CALLBACK"
	case KindMessage:
		return "MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// Target is what a timer invokes at expiry.
type Target struct {
	kind Kind

	// Callback variant.
	fn func()

	// Message variant.
	router router.Router
	dest   router.RouterID
	msg    router.Message
}

// Callback builds a callback target. A nil fn yields the zero Target.
func Callback(fn func()) Target {
	if fn == nil {
		return Target{}
	}
	return Target{kind: KindCallback, fn: fn}
}

// Message builds a message target routed through r. A nil router yields
// the zero Target.
func Message(r router.Router, dest router.RouterID, msg router.Message) Target {
	if r == nil {
		return Target{}
	}
	return Target{kind: KindMessage, router: r, dest: dest, msg: msg}
}

// Broadcast builds a message target addressed to every subscriber.
func Broadcast(r router.Router, msg router.Message) Target {
	return Message(r, router.AllRouters, msg)
}

// Kind returns the target's variant tag.
func (t Target) Kind() Kind {
	return t.kind
}

// IsZero reports whether the target is the non-invocable zero value.
func (t Target) IsZero() bool {
	return t.kind == KindNone
}

// Invoke fires the target. Invoking the zero Target is a no-op.
func (t Target) Invoke() {
	switch t.kind {
	case KindCallback:
		t.fn()
	case KindMessage:
		t.router.Receive(t.dest, t.msg)
	}
}
