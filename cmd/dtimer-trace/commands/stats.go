package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dtimer-project/dtimer-go/pkg/trace"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents  int
	EventsByKind map[trace.Kind]int
	Timers       map[uint8]*TimerStats
	Sessions     map[string]*SessionStats
	TicksElapsed uint64
	SkippedTicks int
	TimeRange    struct {
		Start time.Time
		End   time.Time
	}
}

// TimerStats holds statistics for a single timer handle.
type TimerStats struct {
	Name       string
	Inserts    int
	Removes    int
	Dispatches int
}

// SessionStats holds statistics for a single capture session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := trace.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind: make(map[trace.Kind]int),
		Timers:       make(map[uint8]*TimerStats),
		Sessions:     make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track session stats
		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}

		switch event.Kind {
		case trace.KindInsert, trace.KindRemove, trace.KindDispatch:
			ts, ok := stats.Timers[event.TimerID]
			if !ok {
				ts = &TimerStats{}
				stats.Timers[event.TimerID] = ts
			}
			if event.Name != "" && ts.Name == "" {
				ts.Name = event.Name
			}
			switch event.Kind {
			case trace.KindInsert:
				ts.Inserts++
			case trace.KindRemove:
				ts.Removes++
			case trace.KindDispatch:
				ts.Dispatches++
			}
		case trace.KindTick:
			stats.TicksElapsed += uint64(event.Ticks)
		case trace.KindTickSkipped:
			stats.SkippedTicks++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Scheduler Trace Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by kind
	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range []trace.Kind{trace.KindInsert, trace.KindRemove, trace.KindDispatch, trace.KindTick, trace.KindTickSkipped} {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Tick totals
	fmt.Fprintf(w, "Ticks Elapsed: %d\n", stats.TicksElapsed)
	if stats.SkippedTicks > 0 {
		fmt.Fprintf(w, "Skipped Ticks: %d\n", stats.SkippedTicks)
	}
	fmt.Fprintln(w)

	// Timers sorted by handle
	fmt.Fprintf(w, "Timers: %d\n", len(stats.Timers))
	if len(stats.Timers) > 0 {
		ids := make([]uint8, 0, len(stats.Timers))
		for id := range stats.Timers {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			ts := stats.Timers[id]
			label := fmt.Sprintf("%d", id)
			if ts.Name != "" {
				label = fmt.Sprintf("%d (%s)", id, ts.Name)
			}
			fmt.Fprintf(w, "  [%s] inserts=%d removes=%d dispatches=%d\n",
				label, ts.Inserts, ts.Removes, ts.Dispatches)
		}
	}

	// Sessions sorted by first seen
	if len(stats.Sessions) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
		type sessInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			shortID := s.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortID, s.stats.Events, duration)
		}
	}
}
