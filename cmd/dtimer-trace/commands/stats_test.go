package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dtimer-project/dtimer-go/pkg/trace"
)

func TestStatsCountsByKind(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []trace.Event{
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindInsert, TimerID: 1},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindInsert, TimerID: 2},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindRemove, TimerID: 1},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindDispatch, TimerID: 1},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindTick, Ticks: 1},
	}

	path := createTestTraceFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Total Events: 5") {
		t.Errorf("expected 5 total events, got:\n%s", output)
	}
	if !strings.Contains(output, "INSERT:") {
		t.Error("expected INSERT count in output")
	}
	if !strings.Contains(output, "REMOVE:") {
		t.Error("expected REMOVE count in output")
	}
	if !strings.Contains(output, "DISPATCH:") {
		t.Error("expected DISPATCH count in output")
	}
	if !strings.Contains(output, "TICK:") {
		t.Error("expected TICK count in output")
	}
}

func TestStatsPerTimer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []trace.Event{
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindInsert, TimerID: 4, Name: "heartbeat"},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindRemove, TimerID: 4, Name: "heartbeat"},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindDispatch, TimerID: 4, Name: "heartbeat"},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindInsert, TimerID: 4, Name: "heartbeat"},
	}

	path := createTestTraceFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Timers: 1") {
		t.Errorf("expected 1 timer, got:\n%s", output)
	}
	if !strings.Contains(output, "[4 (heartbeat)] inserts=2 removes=1 dispatches=1") {
		t.Errorf("expected per-timer line, got:\n%s", output)
	}
}

func TestStatsTicksElapsed(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []trace.Event{
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindTick, Ticks: 3},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindTick, Ticks: 2},
		{Timestamp: ts, SessionID: "s1", Kind: trace.KindTickSkipped, Ticks: 1},
	}

	path := createTestTraceFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Ticks Elapsed: 5") {
		t.Errorf("expected 5 ticks elapsed, got:\n%s", output)
	}
	if !strings.Contains(output, "Skipped Ticks: 1") {
		t.Errorf("expected 1 skipped tick, got:\n%s", output)
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 28, 11, 0, 0, 0, time.UTC)
	events := []trace.Event{
		{Timestamp: start, SessionID: "s1", Kind: trace.KindTick, Ticks: 1},
		{Timestamp: end, SessionID: "s1", Kind: trace.KindTick, Ticks: 1},
	}

	path := createTestTraceFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Duration:") {
		t.Error("expected Duration in output")
	}
	if !strings.Contains(output, "1h0m0s") {
		t.Errorf("expected 1h0m0s duration, got:\n%s", output)
	}
}

func TestStatsMultipleSessions(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []trace.Event{
		{Timestamp: ts, SessionID: "sess-aaaa-bbbb", Kind: trace.KindTick, Ticks: 1},
		{Timestamp: ts.Add(time.Second), SessionID: "sess-aaaa-bbbb", Kind: trace.KindTick, Ticks: 1},
		{Timestamp: ts.Add(2 * time.Second), SessionID: "sess-cccc-dddd", Kind: trace.KindTick, Ticks: 1},
	}

	path := createTestTraceFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Sessions: 2") {
		t.Errorf("expected 2 sessions, got:\n%s", output)
	}
	if !strings.Contains(output, "[sess-aaa] 2 events") {
		t.Errorf("expected session details, got:\n%s", output)
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestTraceFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected 0 total events, got:\n%s", buf.String())
	}
}
