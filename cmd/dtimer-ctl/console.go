package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dtimer-project/dtimer-go/pkg/dispatch"
	"github.com/dtimer-project/dtimer-go/pkg/persistence"
	"github.com/dtimer-project/dtimer-go/pkg/sched"
	"github.com/dtimer-project/dtimer-go/pkg/timer"
)

// console handles the interactive command loop.
type console struct {
	s  *sched.Scheduler
	rl *readline.Instance
}

func newConsole(s *sched.Scheduler) (*console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sched> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &console{s: s, rl: rl}, nil
}

func (c *console) run() {
	defer c.rl.Close()

	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "register", "r":
			c.cmdRegister(args)

		case "unregister", "u":
			c.cmdUnregister(args)

		case "start":
			c.cmdStart(args)

		case "stop":
			c.cmdStop(args)

		case "period":
			c.cmdPeriod(args)

		case "mode":
			c.cmdMode(args)

		case "tick", "t":
			c.cmdTick(args)

		case "list", "l":
			c.cmdList()

		case "next", "n":
			c.cmdNext()

		case "enable":
			c.cmdEnable(args)

		case "clear":
			c.s.Clear()
			fmt.Fprintln(c.rl.Stdout(), "cleared")

		case "snapshot":
			c.cmdSnapshot(args)

		case "restore":
			c.cmdRestore(args)

		case "exit", "quit", "q":
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "unknown command %q (try help)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprint(c.rl.Stdout(), `Commands:
  register <period> [repeat]     register a callback timer
  unregister <id>                free a timer slot
  start <id> [now]               arm a timer, optionally immediate
  stop <id>                      disarm a timer
  period <id> <ticks>            stop and change the period
  mode <id> <repeat|oneshot>     stop and change the mode
  tick <elapsed>                 advance time
  list                           show every registered timer
  next                           show ticks until the next expiry
  enable <on|off>                toggle tick processing
  clear                          disarm and unregister everything
  snapshot <file>                write a CBOR snapshot of the arena
  restore <file>                 restore a previously saved snapshot
  exit
`)
}

func (c *console) cmdRegister(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: register <period> [repeat]")
		return
	}
	period, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad period %q\n", args[0])
		return
	}
	repeating := len(args) > 1 && args[1] == "repeat"

	out := c.rl.Stdout()
	id := c.s.Register(dispatch.Callback(func() {
		fmt.Fprintf(out, "  * timer fired\n")
	}), timer.Ticks(period), repeating)
	if id == timer.NoTimer {
		fmt.Fprintln(out, "pool full")
		return
	}
	fmt.Fprintf(out, "registered timer %d (period=%d repeating=%v)\n", id, period, repeating)
}

func (c *console) cmdUnregister(args []string) {
	id, ok := c.parseID(args)
	if !ok {
		return
	}
	if !c.s.Unregister(id) {
		fmt.Fprintf(c.rl.Stdout(), "timer %d is not registered\n", id)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "unregistered timer %d\n", id)
}

func (c *console) cmdStart(args []string) {
	id, ok := c.parseID(args)
	if !ok {
		return
	}
	immediate := len(args) > 1 && args[1] == "now"
	if !c.s.Start(id, immediate) {
		fmt.Fprintf(c.rl.Stdout(), "cannot start timer %d\n", id)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "started timer %d (immediate=%v)\n", id, immediate)
}

func (c *console) cmdStop(args []string) {
	id, ok := c.parseID(args)
	if !ok {
		return
	}
	if !c.s.Stop(id) {
		fmt.Fprintf(c.rl.Stdout(), "timer %d is not armed\n", id)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "stopped timer %d\n", id)
}

func (c *console) cmdPeriod(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "usage: period <id> <ticks>")
		return
	}
	id, ok := c.parseID(args)
	if !ok {
		return
	}
	period, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad period %q\n", args[1])
		return
	}
	if !c.s.SetPeriod(id, timer.Ticks(period)) {
		fmt.Fprintf(c.rl.Stdout(), "cannot change period of timer %d (must be armed)\n", id)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "timer %d period=%d; re-arm with start\n", id, period)
}

func (c *console) cmdMode(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "usage: mode <id> <repeat|oneshot>")
		return
	}
	id, ok := c.parseID(args)
	if !ok {
		return
	}
	repeating := args[1] == "repeat"
	if !c.s.SetMode(id, repeating) {
		fmt.Fprintf(c.rl.Stdout(), "cannot change mode of timer %d (must be armed)\n", id)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "timer %d repeating=%v; re-arm with start\n", id, repeating)
}

func (c *console) cmdTick(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: tick <elapsed>")
		return
	}
	elapsed, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad elapsed count %q\n", args[0])
		return
	}
	if !c.s.Tick(timer.Ticks(elapsed)) {
		fmt.Fprintln(c.rl.Stdout(), "tick refused (disabled or mutation in flight); elapsed not consumed")
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "advanced %d ticks\n", elapsed)
}

func (c *console) cmdList() {
	out := c.rl.Stdout()
	if c.s.RegisteredCount() == 0 {
		fmt.Fprintln(out, "no timers registered")
		return
	}
	for id := 0; id < c.s.Capacity(); id++ {
		state := c.s.State(timer.ID(id))
		if state == timer.StateUnregistered {
			continue
		}
		fmt.Fprintf(out, "  timer %d: %s\n", id, state)
	}
}

func (c *console) cmdNext() {
	next := c.s.TimeToNext()
	if next == timer.NoActiveInterval {
		fmt.Fprintln(c.rl.Stdout(), "no active timer")
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "next expiry in %d ticks\n", next)
}

func (c *console) cmdEnable(args []string) {
	if len(args) < 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(c.rl.Stdout(), "usage: enable <on|off>")
		return
	}
	c.s.Enable(args[0] == "on")
	fmt.Fprintf(c.rl.Stdout(), "tick processing %s\n", args[0])
}

func (c *console) cmdSnapshot(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: snapshot <file>")
		return
	}
	store := persistence.NewSnapshotStore(args[0])
	if err := store.Save(c.s.Snapshot()); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "snapshot: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "snapshot written to %s\n", args[0])
}

func (c *console) cmdRestore(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: restore <file>")
		return
	}
	store := persistence.NewSnapshotStore(args[0])
	stored, err := store.Load()
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "restore: %v\n", err)
		return
	}
	if stored == nil {
		fmt.Fprintf(c.rl.Stdout(), "restore: no snapshot at %s\n", args[0])
		return
	}
	if err := c.s.RestoreSnapshot(stored.Snapshot); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "restore: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "restored snapshot saved at %s\n",
		stored.SavedAt.Format("2006-01-02T15:04:05Z"))
}

// parseID parses the first argument as a timer handle.
func (c *console) parseID(args []string) (timer.ID, bool) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "missing timer id")
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad timer id %q\n", args[0])
		return 0, false
	}
	return timer.ID(n), true
}
