// Command dtimer-trace is a tool for viewing and analyzing scheduler
// trace files.
//
// Trace files are created by attaching a trace.Recorder with a
// trace.FileLogger, for example via dtimer-sim's -trace flag.
//
// Usage:
//
//	dtimer-trace <command> [flags] <file.trace>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL or CSV
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all events
//	dtimer-trace view run.trace
//
//	# View only dispatches
//	dtimer-trace view -kind DISPATCH run.trace
//
//	# Export to JSONL
//	dtimer-trace export run.trace
//
//	# Show statistics
//	dtimer-trace stats run.trace
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dtimer-project/dtimer-go/cmd/dtimer-trace/commands"
	"github.com/dtimer-project/dtimer-go/pkg/trace"
)

const usage = `dtimer-trace - scheduler trace analyzer

Usage:
  dtimer-trace <command> [flags] <file.trace>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL or CSV
  stats    Show statistics about the trace file

Use "dtimer-trace <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "view":
		err = runView(args)
	case "export":
		err = runExport(args)
	case "stats":
		err = runStats(args)
	case "help", "-help", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "dtimer-trace: %v\n", err)
		os.Exit(1)
	}
}

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	kindName := fs.String("kind", "", "only show events of this kind (INSERT, REMOVE, DISPATCH, TICK, TICK_SKIPPED)")
	session := fs.String("session", "", "only show events from this capture session")
	timerID := fs.Int("timer", -1, "only show events for this timer handle")
	name := fs.String("name", "", "only show events for this timer name")
	fs.Parse(args)

	path, err := tracePath(fs)
	if err != nil {
		return err
	}

	filter := trace.Filter{SessionID: *session, Name: *name}
	if *kindName != "" {
		kind, ok := trace.ParseKind(*kindName)
		if !ok {
			return fmt.Errorf("unknown kind %q", *kindName)
		}
		filter.Kind = &kind
	}
	if *timerID >= 0 {
		if *timerID > 255 {
			return fmt.Errorf("timer handle %d out of range", *timerID)
		}
		id := uint8(*timerID)
		filter.TimerID = &id
	}

	return commands.RunView(path, filter, os.Stdout)
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "jsonl", "output format (jsonl or csv)")
	output := fs.String("o", "", "output file (default stdout)")
	fs.Parse(args)

	path, err := tracePath(fs)
	if err != nil {
		return err
	}
	return commands.RunExport(path, *format, *output)
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(args)

	path, err := tracePath(fs)
	if err != nil {
		return err
	}
	return commands.RunStats(path, os.Stdout)
}

func tracePath(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one trace file argument")
	}
	return fs.Arg(0), nil
}
