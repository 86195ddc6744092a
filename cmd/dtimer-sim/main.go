// Command dtimer-sim runs a scheduler from a declarative configuration,
// driven by a wall-clock tick source.
//
// The simulator loads a YAML timer set, wires every callback timer to a
// logging target and every message timer to an in-process broker, then
// converts wall-clock time into ticks and feeds the scheduler until the
// run duration expires. Skipped ticks are accumulated and re-presented,
// matching the contract the scheduler's non-blocking guard expects of
// its tick source.
//
// Usage:
//
//	dtimer-sim -config timers.yaml [flags]
//
// Flags:
//
//	-config string        Configuration file path (required)
//	-duration duration    How long to run (default 10s)
//	-tick duration        Wall-clock interval per tick (default 100ms)
//	-trace string         Write a CBOR activity trace to this file
//	-snapshot string      Restore the schedule from this file on start
//	                      and save it on exit
//	-log-level string     Log level: debug, info, warn, error (default "info")
//
// Example configuration:
//
//	capacity: 8
//	guard: atomic
//	enabled: true
//	timers:
//	  - name: heartbeat
//	    period: 10
//	    repeating: true
//	    start: true
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dtimer-project/dtimer-go/pkg/config"
	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/persistence"
	"github.com/dtimer-project/dtimer-go/pkg/router"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
	"github.com/dtimer-project/dtimer-go/pkg/trace"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	runFor := flag.Duration("duration", 10*time.Second, "how long to run")
	tickEvery := flag.Duration("tick", 100*time.Millisecond, "wall-clock interval per tick")
	tracePath := flag.String("trace", "", "write a CBOR activity trace to this file")
	snapPath := flag.String("snapshot", "", "restore schedule from this file on start and save it on exit")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "dtimer-sim: -config is required")
		flag.Usage()
		os.Exit(2)
	}

	logger := newLogger(*logLevel)

	if err := run(logger, *configPath, *runFor, *tickEvery, *tracePath, *snapPath); err != nil {
		logger.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

func run(logger *slog.Logger, configPath string, runFor, tickEvery time.Duration, tracePath, snapPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var capture trace.Logger = trace.NoopLogger{}
	if tracePath != "" {
		file, err := trace.NewFileLogger(tracePath)
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}
		defer file.Close()
		capture = trace.NewMultiLogger(file, trace.NewSlogAdapter(logger))
	}
	rec := trace.NewRecorder(capture)

	broker := router.NewBroker()
	broker.Subscribe(router.NewHandler(0, func(msg router.Message) {
		logger.Info("message delivered", "msg_id", uint32(msg.ID), "payload", msg.Payload)
	}), allDeclaredMessageIDs(cfg)...)

	s, handles, err := config.Build(cfg, config.BuildOptions{
		Router: broker,
		Target: func(decl config.TimerDecl) dispatch.Target {
			name := decl.Name
			return dispatch.Callback(func() {
				logger.Info("timer fired", "timer", name)
			})
		},
	})
	if err != nil {
		return err
	}

	rec.Attach(s)
	for name, id := range handles {
		rec.Name(id, name)
	}

	var store *persistence.SnapshotStore
	if snapPath != "" {
		store = persistence.NewSnapshotStore(snapPath)
		stored, err := store.Load()
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if stored != nil {
			if err := s.RestoreSnapshot(stored.Snapshot); err != nil {
				return fmt.Errorf("restore snapshot: %w", err)
			}
			logger.Info("schedule restored", "saved_at", stored.SavedAt)
		}
		defer func() {
			if err := store.Save(s.Snapshot()); err != nil {
				logger.Error("failed to save snapshot", "err", err)
				return
			}
			logger.Info("schedule saved", "path", snapPath)
		}()
	}

	logger.Info("simulation started",
		"capacity", s.Capacity(),
		"timers", s.RegisteredCount(),
		"guard", string(cfg.Guard),
		"session", rec.SessionID(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()
	deadline := time.After(runFor)

	// Unprocessed ticks carry over to the next cycle.
	var pending timer.Ticks

	for {
		select {
		case <-ticker.C:
			pending++
			processed := s.Tick(pending)
			rec.Tick(pending, processed)
			if processed {
				pending = 0
			}

		case <-deadline:
			logger.Info("simulation complete")
			return nil

		case sig := <-sigCh:
			logger.Info("interrupted", "signal", sig.String())
			return nil
		}
	}
}

// allDeclaredMessageIDs collects the message IDs the configuration routes.
func allDeclaredMessageIDs(cfg config.Config) []router.MessageID {
	var ids []router.MessageID
	for _, decl := range cfg.Timers {
		if decl.Message != nil {
			ids = append(ids, router.MessageID(decl.Message.ID))
		}
	}
	return ids
}
