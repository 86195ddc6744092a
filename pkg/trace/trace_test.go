package trace_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
	"github.com/dtimer-project/dtimer-go/pkg/trace"
)

// memLogger collects events in memory.
type memLogger struct {
	events []trace.Event
}

func (m *memLogger) Log(event trace.Event) {
	m.events = append(m.events, event)
}

func kinds(events []trace.Event) []trace.Kind {
	out := make([]trace.Kind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestRecorderCapturesSchedulerActivity(t *testing.T) {
	s, err := sched.New(2)
	require.NoError(t, err)
	s.Enable(true)

	var mem memLogger
	rec := trace.NewRecorder(&mem)
	rec.Attach(s)

	id := s.Register(dispatch.Callback(func() {}), 5, false)
	require.Equal(t, timer.ID(0), id)
	rec.Name(id, "heartbeat")

	require.True(t, s.Start(id, false))
	processed := s.Tick(5)
	rec.Tick(5, processed)

	// Start inserts; expiry removes then dispatches; then the tick record.
	want := []trace.Kind{trace.KindInsert, trace.KindRemove, trace.KindDispatch, trace.KindTick}
	assert.Equal(t, want, kinds(mem.events))

	assert.Equal(t, "heartbeat", mem.events[0].Name)
	assert.Equal(t, uint8(id), mem.events[0].TimerID)
	assert.Equal(t, uint32(5), mem.events[3].Ticks)

	for _, e := range mem.events {
		assert.Equal(t, rec.SessionID(), e.SessionID)
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestRecorderSkippedTick(t *testing.T) {
	var mem memLogger
	rec := trace.NewRecorder(&mem)

	rec.Tick(7, false)

	require.Len(t, mem.events, 1)
	assert.Equal(t, trace.KindTickSkipped, mem.events[0].Kind)
	assert.Equal(t, uint32(7), mem.events[0].Ticks)
}

func TestRecorderNilLogger(t *testing.T) {
	rec := trace.NewRecorder(nil)
	rec.Tick(1, true) // must not panic
	assert.NotEmpty(t, rec.SessionID())
}

func TestEventEncodeDecodeRoundTrip(t *testing.T) {
	event := trace.Event{
		SessionID: "s-1",
		Kind:      trace.KindDispatch,
		TimerID:   3,
		Ticks:     12,
		Name:      "blink",
	}

	data, err := trace.EncodeEvent(event)
	require.NoError(t, err)

	decoded, err := trace.DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.Kind, decoded.Kind)
	assert.Equal(t, event.TimerID, decoded.TimerID)
	assert.Equal(t, event.Ticks, decoded.Ticks)
	assert.Equal(t, event.Name, decoded.Name)
}

func TestFileLoggerAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.trace")

	logger, err := trace.NewFileLogger(path)
	require.NoError(t, err)

	rec := trace.NewRecorder(logger)
	rec.Tick(1, true)
	rec.Tick(2, true)
	rec.Tick(3, false)
	require.NoError(t, logger.Close())

	// Close is idempotent; Log after Close is ignored.
	require.NoError(t, logger.Close())
	logger.Log(trace.Event{})

	r, err := trace.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	events, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, uint32(2), events[1].Ticks)
	assert.Equal(t, trace.KindTickSkipped, events[2].Kind)
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.trace")

	logger, err := trace.NewFileLogger(path)
	require.NoError(t, err)
	rec := trace.NewRecorder(logger)
	rec.Tick(1, true)
	rec.Tick(2, false)
	rec.Tick(3, true)
	require.NoError(t, logger.Close())

	kind := trace.KindTick
	r, err := trace.NewFilteredReader(path, trace.Filter{Kind: &kind})
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), first.Ticks)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), second.Ticks)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMultiLoggerFansOut(t *testing.T) {
	var first, second memLogger
	multi := trace.NewMultiLogger(&first, nil, &second, trace.NoopLogger{})

	multi.Log(trace.Event{Kind: trace.KindInsert})

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

func TestFilteredLoggerCapturesMatchingEvents(t *testing.T) {
	var mem memLogger
	kind := trace.KindDispatch
	logger := trace.NewFilteredLogger(&mem, trace.Filter{Kind: &kind})

	logger.Log(trace.Event{Kind: trace.KindInsert, TimerID: 1})
	logger.Log(trace.Event{Kind: trace.KindDispatch, TimerID: 1})
	logger.Log(trace.Event{Kind: trace.KindTick, Ticks: 4})
	logger.Log(trace.Event{Kind: trace.KindDispatch, TimerID: 2})

	require.Len(t, mem.events, 2)
	assert.Equal(t, uint8(1), mem.events[0].TimerID)
	assert.Equal(t, uint8(2), mem.events[1].TimerID)
}

func TestFileLoggerFlushMakesEventsReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.trace")

	logger, err := trace.NewFileLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	logger.Log(trace.Event{Kind: trace.KindTick, Ticks: 9})
	require.NoError(t, logger.Flush())

	r, err := trace.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	events, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint32(9), events[0].Ticks)
}

func TestParseKind(t *testing.T) {
	for _, kind := range []trace.Kind{
		trace.KindInsert, trace.KindRemove, trace.KindDispatch,
		trace.KindTick, trace.KindTickSkipped,
	} {
		got, ok := trace.ParseKind(kind.String())
		require.True(t, ok, "ParseKind(%q)", kind.String())
		assert.Equal(t, kind, got)
	}

	if _, ok := trace.ParseKind("UNKNOWN"); ok {
		t.Error("ParseKind(\"UNKNOWN\") = true, want false")
	}
}
