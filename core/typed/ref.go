package typed

import (
	"context"
	"time"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

// Ref restricts an untyped runtime reference to messages of type M. It owns
// no state beyond the wrapped reference and a phantom type marker; identity
// operations delegate to the wrapped reference, so typed and untyped views
// of the same address are fully substitutable.
//
// The zero Ref wraps nothing and must not be used; construct with [Wrap],
// [Switch] or [Restore].
type Ref[M any] struct {
	ref runtime.Ref
}

// Wrap narrows r to message type M. If r is itself a typed wrapper it is
// unwrapped first, so re-wrapping never nests.
func Wrap[M any](r runtime.Ref) Ref[M] {
	return Ref[M]{ref: runtime.Unwrap(r)}
}

// Unwrap returns the wrapped untyped reference. This is the identity and
// re-typing escape hatch; message traffic should go through Tell and Ask.
func (r Ref[M]) Unwrap() runtime.Ref { return r.ref }

// Tell forwards msg and sender to the wrapped reference's send primitive.
// Exactly the side effect of the underlying send: no buffering, no
// reordering, no result.
func (r Ref[M]) Tell(msg M, sender runtime.Ref) {
	r.ref.Send(msg, runtime.Unwrap(sender))
}

// Ask forwards to the wrapped reference's request primitive. The returned
// future settles with the raw reply; the free function [Ask] adds the
// checked conversion to the expected response type.
func (r Ref[M]) Ask(ctx context.Context, msg M, timeout time.Duration) *future.Future[any] {
	return r.ref.Request(ctx, msg, timeout)
}

// Send is the untyped interop capability: it bypasses the M restriction and
// forwards directly to the wrapped reference. Together with the delegating
// identity and surrogate methods below it makes Ref[M] itself a
// [runtime.Ref].
func (r Ref[M]) Send(msg any, sender runtime.Ref) {
	r.ref.Send(msg, runtime.Unwrap(sender))
}

// Request is the untyped interop counterpart of Ask.
func (r Ref[M]) Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any] {
	return r.ref.Request(ctx, msg, timeout)
}

// Path returns the wrapped reference's path.
func (r Ref[M]) Path() string { return r.ref.Path() }

// Equal delegates to the wrapped reference, unwrapping other first when it
// is itself a wrapper. Ref[A], Ref[B] and the bare reference over the same
// address all compare equal.
func (r Ref[M]) Equal(other any) bool {
	return r.ref.Equal(unwrapAny(other))
}

// Hash delegates to the wrapped reference; the type marker does not
// participate.
func (r Ref[M]) Hash() uint64 { return r.ref.Hash() }

// Compare delegates to the wrapped reference, unwrapping other first.
func (r Ref[M]) Compare(other runtime.Ref) int {
	return r.ref.Compare(runtime.Unwrap(other))
}

// String returns the wrapped reference's string form.
func (r Ref[M]) String() string { return r.ref.String() }

// Surrogate exports a descriptor wrapping the underlying reference's own
// surrogate. The message type M is erased; see [Restore].
func (r Ref[M]) Surrogate(sctx runtime.SurrogateContext) (runtime.Surrogate, error) {
	s, err := Export(r, sctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

var (
	_ runtime.Ref        = Ref[any]{}
	_ Switchable[string] = Ref[string]{}
)

// unwrapAny strips a wrapper from an arbitrary comparison operand.
func unwrapAny(v any) any {
	if w, ok := v.(runtime.Wrapper); ok {
		if u := runtime.Unwrap(w.Unwrap()); u != nil {
			return u
		}
	}
	return v
}
