package dtimer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtimer-project/dtimer-go/pkg/config"
	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/persistence"
	"github.com/dtimer-project/dtimer-go/pkg/router"
	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/trace"
)

// writeConfig writes a YAML configuration to a temp file.
func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

// TestE2E_ConfigToDispatch loads a declarative timer set, builds a
// scheduler around a broker, and drives it through several expiries.
func TestE2E_ConfigToDispatch(t *testing.T) {
	path := writeConfig(t, `
capacity: 8
guard: atomic
enabled: true
timers:
  - name: heartbeat
    period: 3
    repeating: true
    start: true
  - name: announce
    period: 5
    start: true
    message:
      id: 100
  - name: idle
    period: 7
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	broker := router.NewBroker()
	var delivered []router.MessageID
	require.NoError(t, broker.Subscribe(router.NewHandler(1, func(msg router.Message) {
		delivered = append(delivered, msg.ID)
	}), 100))

	fired := map[string]int{}
	s, handles, err := config.Build(cfg, config.BuildOptions{
		Router: broker,
		Target: func(decl config.TimerDecl) dispatch.Target {
			name := decl.Name
			return dispatch.Callback(func() { fired[name]++ })
		},
	})
	require.NoError(t, err)
	require.Len(t, handles, 3)

	// idle is declared but not started
	assert.False(t, s.IsActive(handles["idle"]))

	for i := 0; i < 10; i++ {
		require.True(t, s.Tick(1))
	}

	// heartbeat repeats at 3: expiries at 3, 6, 9
	assert.Equal(t, 3, fired["heartbeat"])
	// announce is one-shot at 5
	assert.Equal(t, []router.MessageID{100}, delivered)
	assert.Zero(t, fired["idle"])
}

// TestE2E_TraceRoundTrip captures scheduler activity to a trace file and
// reads it back filtered.
func TestE2E_TraceRoundTrip(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "run.trace")

	file, err := trace.NewFileLogger(tracePath)
	require.NoError(t, err)

	rec := trace.NewRecorder(file)

	s, err := sched.New(4)
	require.NoError(t, err)
	s.Enable(true)
	rec.Attach(s)

	id := s.Register(dispatch.Callback(func() {}), 2, true)
	rec.Name(id, "blinker")
	require.True(t, s.Start(id, false))

	for i := 0; i < 6; i++ {
		processed := s.Tick(1)
		rec.Tick(1, processed)
	}
	require.NoError(t, file.Close())

	kind := trace.KindDispatch
	reader, err := trace.NewFilteredReader(tracePath, trace.Filter{Kind: &kind})
	require.NoError(t, err)
	defer reader.Close()

	events, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 3, "expiries at tick 2, 4, 6")
	for _, e := range events {
		assert.Equal(t, uint8(id), e.TimerID)
		assert.Equal(t, "blinker", e.Name)
		assert.Equal(t, rec.SessionID(), e.SessionID)
	}
}

// TestE2E_SnapshotRestart saves a mid-schedule snapshot, rebuilds the
// scheduler from the same configuration, and resumes where it left off.
func TestE2E_SnapshotRestart(t *testing.T) {
	path := writeConfig(t, `
capacity: 4
timers:
  - name: slow
    period: 10
    start: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	build := func(fired *int) *sched.Scheduler {
		s, _, err := config.Build(cfg, config.BuildOptions{
			Target: func(decl config.TimerDecl) dispatch.Target {
				return dispatch.Callback(func() { *fired++ })
			},
		})
		require.NoError(t, err)
		return s
	}

	var firstFired int
	first := build(&firstFired)
	first.Tick(4)
	require.Zero(t, firstFired)

	store := persistence.NewSnapshotStore(filepath.Join(t.TempDir(), "sched.snap"))
	require.NoError(t, store.Save(first.Snapshot()))

	// Restart: same config, fresh scheduler, restored schedule.
	var secondFired int
	second := build(&secondFired)
	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NoError(t, second.RestoreSnapshot(stored.Snapshot))

	assert.EqualValues(t, 6, second.TimeToNext())

	second.Tick(5)
	assert.Zero(t, secondFired)
	second.Tick(1)
	assert.Equal(t, 1, secondFired)
}
