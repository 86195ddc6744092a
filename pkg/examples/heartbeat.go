package examples

import (
	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/router"
	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// Heartbeat broadcasts a liveness message at a fixed period. It
// demonstrates a repeating message timer driving a broker.
type Heartbeat struct {
	s  *sched.Scheduler
	id timer.ID
}

// NewHeartbeat registers a repeating timer on s that broadcasts msgID on
// the broker every period ticks. The heartbeat is not armed until Start.
func NewHeartbeat(s *sched.Scheduler, b *router.Broker, period timer.Ticks, msgID router.MessageID) (*Heartbeat, error) {
	target := dispatch.Broadcast(b, router.Message{ID: msgID})
	id := s.Register(target, period, true)
	if id == timer.NoTimer {
		return nil, ErrNoFreeSlot
	}
	return &Heartbeat{s: s, id: id}, nil
}

// Start begins the heartbeat. With immediate set, the first beat fires on
// the next tick.
func (h *Heartbeat) Start(immediate bool) bool {
	return h.s.Start(h.id, immediate)
}

// Stop suspends the heartbeat without freeing its slot.
func (h *Heartbeat) Stop() bool {
	return h.s.Stop(h.id)
}

// ID returns the heartbeat's timer handle, for trace naming.
func (h *Heartbeat) ID() timer.ID {
	return h.id
}

// Close frees the heartbeat's timer slot.
func (h *Heartbeat) Close() {
	h.s.Unregister(h.id)
}
