// Command dtimer-ctl is an interactive console for exercising a scheduler.
//
// It drives a live scheduler entirely by hand: register and arm timers,
// advance time by explicit tick counts, and inspect the active list after
// every step. Useful for exploring delta-queue behaviour and for
// reproducing scheduling sequences from bug reports.
//
// Usage:
//
//	dtimer-ctl [-capacity n] [-guard none|atomic]
//
// Commands (inside the console):
//
//	register <period> [repeat]     register a callback timer
//	unregister <id>                free a timer slot
//	start <id> [now]               arm a timer, optionally immediate
//	stop <id>                      disarm a timer
//	period <id> <ticks>            stop and change the period
//	mode <id> <repeat|oneshot>     stop and change the mode
//	tick <elapsed>                 advance time
//	list                           show every registered timer
//	next                           show ticks until the next expiry
//	enable <on|off>                toggle tick processing
//	clear                          disarm and unregister everything
//	snapshot <file>                write a CBOR snapshot of the arena
//	restore <file>                 restore a previously saved snapshot
//	help                           show this list
//	exit
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dtimer-project/dtimer-go/pkg/guard"
	"github.com/dtimer-project/dtimer-go/pkg/sched"
)

func main() {
	capacity := flag.Int("capacity", 16, "pool capacity")
	guardKind := flag.String("guard", "none", "guard strategy: none, atomic")
	flag.Parse()

	var g guard.Guard
	switch *guardKind {
	case "none":
		g = guard.NewNone()
	case "atomic":
		g = guard.NewAtomic()
	default:
		fmt.Fprintf(os.Stderr, "dtimer-ctl: unknown guard %q (mask needs a platform pair)\n", *guardKind)
		os.Exit(2)
	}

	s, err := sched.NewWithGuard(*capacity, g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dtimer-ctl: %v\n", err)
		os.Exit(2)
	}
	s.Enable(true)

	console, err := newConsole(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dtimer-ctl: %v\n", err)
		os.Exit(1)
	}
	console.run()
}
