package trace

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// Recorder translates scheduler activity into trace events.
//
// Attach installs the recorder as the scheduler's insert, remove, and
// dispatch hooks. A recorder therefore claims the scheduler's hook slots
// for itself - attach it before, and instead of, any other hook user.
type Recorder struct {
	logger  Logger
	session string

	// Wall-clock source, swappable in tests.
	now func() time.Time

	mu    sync.RWMutex
	names map[timer.ID]string
}

// NewRecorder creates a recorder with a fresh session ID.
func NewRecorder(logger Logger) *Recorder {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Recorder{
		logger:  logger,
		session: uuid.New().String(),
		now:     time.Now,
		names:   make(map[timer.ID]string),
	}
}

// SessionID returns the capture session UUID.
func (r *Recorder) SessionID() string {
	return r.session
}

// Name associates a human-readable name with a timer handle. Subsequent
// events for that handle carry the name.
func (r *Recorder) Name(id timer.ID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[id] = name
}

// Attach installs the recorder as the scheduler's insert, remove, and
// dispatch hooks.
func (r *Recorder) Attach(s *sched.Scheduler) {
	s.SetInsertHook(func(id timer.ID) {
		r.emit(KindInsert, id, 0)
	})
	s.SetRemoveHook(func(id timer.ID) {
		r.emit(KindRemove, id, 0)
	})
	s.SetDispatchHook(func(id timer.ID) {
		r.emit(KindDispatch, id, 0)
	})
}

// Tick records the outcome of a tick: processed with its elapsed count,
// or skipped.
func (r *Recorder) Tick(elapsed timer.Ticks, processed bool) {
	kind := KindTick
	if !processed {
		kind = KindTickSkipped
	}
	r.logger.Log(Event{
		Timestamp: r.now(),
		SessionID: r.session,
		Kind:      kind,
		Ticks:     uint32(elapsed),
	})
}

func (r *Recorder) emit(kind Kind, id timer.ID, ticks timer.Ticks) {
	r.mu.RLock()
	name := r.names[id]
	r.mu.RUnlock()

	r.logger.Log(Event{
		Timestamp: r.now(),
		SessionID: r.session,
		Kind:      kind,
		TimerID:   uint8(id),
		Ticks:     uint32(ticks),
		Name:      name,
	})
}
