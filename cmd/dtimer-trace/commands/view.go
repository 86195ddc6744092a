// Package commands implements the dtimer-trace CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/dtimer-project/dtimer-go/pkg/trace"
)

// RunView executes the view command.
func RunView(path string, filter trace.Filter, output io.Writer) error {
	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event trace.Event) {
	// Header line: timestamp [session:id] KIND
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)

	fmt.Fprintf(w, "%s [session:%s] %-12s", ts, session, event.Kind.String())

	switch event.Kind {
	case trace.KindInsert, trace.KindRemove, trace.KindDispatch:
		fmt.Fprintf(w, " timer=%d", event.TimerID)
		if event.Name != "" {
			fmt.Fprintf(w, " (%s)", event.Name)
		}
		if event.Kind == trace.KindInsert {
			fmt.Fprintf(w, " next=%d", event.Ticks)
		}
	case trace.KindTick, trace.KindTickSkipped:
		fmt.Fprintf(w, " elapsed=%d", event.Ticks)
	}

	fmt.Fprintln(w)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
