package runtime

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/codewandler/tref-go/core/future"
)

// Ref is an opaque, comparable, stringifiable handle to a message recipient.
// Implementations are provided by a runtime binding (core/system,
// adapters/nats); the typed facade in core/typed only narrows what flows
// through one.
//
// A Ref is immutable and safe for concurrent use.
type Ref interface {
	// Path returns the recipient's address within its runtime,
	// e.g. "/user/worker".
	Path() string

	// Send enqueues msg for delivery, fire-and-forget. sender may be
	// NoSender. Send returns once the message is handed to the runtime;
	// delivery failures are the runtime's concern and are never raised here.
	Send(msg any, sender Ref)

	// Request sends msg and returns a future settled with the raw reply, a
	// delivery failure, or a timeout. timeout <= 0 selects the runtime
	// default. Cancelling ctx fails the future; the already-sent message is
	// not retracted.
	Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any]

	// Equal reports whether other denotes the same recipient. other may be
	// a Ref, a wrapper around one, or an arbitrary value (never equal).
	Equal(other any) bool

	// Hash returns a hash consistent with Equal.
	Hash() uint64

	// Compare orders this reference relative to other, consistent with
	// Equal. The ordering key is implementation-defined but total within
	// one runtime.
	Compare(other Ref) int

	// String returns the full string form, including the runtime identity,
	// e.g. "system://main/user/worker".
	String() string

	// Surrogate exports a marshal-safe descriptor for this reference.
	Surrogate(sctx SurrogateContext) (Surrogate, error)
}

// NoSender is the absent sender handle. Runtimes treat a nil sender as
// "no reply address".
var NoSender Ref

// Wrapper is implemented by reference wrappers (such as the typed facade)
// that delegate their identity to an underlying Ref.
type Wrapper interface {
	Unwrap() Ref
}

// Unwrap strips any chain of wrappers from r, returning the innermost Ref.
func Unwrap(r Ref) Ref {
	for {
		w, ok := r.(Wrapper)
		if !ok {
			return r
		}
		u := w.Unwrap()
		if u == nil {
			return nil
		}
		r = u
	}
}

// HashString hashes s with FNV-64a. Runtime bindings use it to derive
// reference and selection hashes from their string forms.
func HashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
