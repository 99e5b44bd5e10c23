// Package system provides the in-process runtime binding: a path-addressed
// actor system implementing the contracts of core/runtime, usable on its
// own and as the reference substrate for the typed facade.
//
// Each spawned actor owns a mailbox goroutine and processes messages
// sequentially:
//
//	sys := system.New(system.Options{Name: "main"})
//	defer sys.Shutdown()
//
//	ref, err := sys.Spawn("/user/echo", system.HandlerFunc(func(c *system.Context) {
//	    c.Reply(c.Message())
//	}))
//
// References are stable value handles: they can outlive the actor, cross a
// marshal boundary as path surrogates, and be re-obtained via
// [System.RefByPath]. Selections support a per-element "*" wildcard:
//
//	sys.Selection("/user/*").Send(Notice{}, runtime.NoSender)
//
// Delivery is fire-and-forget with a bounded mailbox; an undeliverable
// send is dropped and counted, never raised back to the caller. Requests
// settle a future with the reply, a delivery failure, or
// [runtime.ErrTimeout].
package system
