// Package typed restricts untyped runtime references to a single declared
// message type, without introducing an identity, delivery path, or wire
// format of its own.
//
// # References
//
// [Wrap] narrows an untyped reference; [Switch] re-types one in O(1):
//
//	worker := typed.Wrap[Job](ref)
//	worker.Tell(Job{ID: 1}, runtime.NoSender)
//
//	admin := typed.Switch[AdminCmd](worker) // same recipient, new restriction
//
// A typed reference delegates Equal, Hash, Compare and String to the
// reference it wraps: Ref[A], Ref[B] and the bare reference over the same
// address are interchangeable in any identity-based collection. It also
// still satisfies [runtime.Ref], so code that was never given the typed view
// can keep using it untyped.
//
// # Asking
//
// The reply type is declared at the call site; a reply of any other type
// fails the future with [ErrUnexpectedReply] instead of being coerced:
//
//	pong, err := typed.Ask[Pong](ctx, worker, Ping{}, time.Second).Result(ctx)
//
// # Selections
//
// [Select] wraps a path pattern that may not denote a live recipient yet:
//
//	sel := typed.Select[Job](sys, "/user/*")
//	ref, err := sel.ResolveOne(ctx, time.Second).Result(ctx)
//
// Unlike references, selections carry their message type in their identity:
// Selection[A] and Selection[B] over the same pattern are not equal.
//
// # Piping
//
// [PipeResult] routes the outcome of a pending computation into a mailbox:
// the settled value on success, a [Failure] on failure. Exactly one of the
// two is sent, exactly once.
//
// # Surrogates
//
// [Export] produces a marshal-safe descriptor holding only the wrapped
// reference's own surrogate; [Restore] re-wraps with the message type
// supplied statically at the call site. The message type is deliberately
// absent from the wire form — both ends agreeing on it is trusted, not
// verified.
package typed
