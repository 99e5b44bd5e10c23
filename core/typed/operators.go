package typed

import (
	"context"
	"fmt"
	"time"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
	"github.com/codewandler/tref-go/internal/reflector"
)

// Tell sends msg fire-and-forget. The sender is read from ctx (see
// [runtime.WithSender]), defaulting to no sender. Runtime bindings install
// the handling actor as the context sender inside message handlers, so a
// Tell issued from a handler carries that actor as its sender.
func Tell[M any](ctx context.Context, t Teller[M], msg M) {
	t.Tell(msg, runtime.SenderFrom(ctx))
}

// Ask sends msg and returns a future for the reply converted to R. A reply
// of any other type fails the future with [ErrUnexpectedReply]; failures
// raised by the runtime (timeout, no recipient) pass through unchanged.
func Ask[R any, M any](ctx context.Context, a Asker[M], msg M, timeout time.Duration) *future.Future[R] {
	return future.Convert(a.Ask(ctx, msg, timeout), func(raw any) (R, error) {
		r, ok := raw.(R)
		if !ok {
			var zero R
			return zero, fmt.Errorf("%w: got %T, want %s",
				ErrUnexpectedReply, raw, reflector.TypeInfoFor[R]().Name)
		}
		return r, nil
	})
}

// Failure wraps the error of a failed piped computation as a message value.
type Failure struct {
	Err error
}

func (f Failure) Error() string { return f.Err.Error() }

// Unwrap exposes the wrapped error to errors.Is / errors.As.
func (f Failure) Unwrap() error { return f.Err }

// PipeResult routes the outcome of f into recipient's mailbox: the settled
// value on success, a [Failure] on failure (including cancellation), from
// the given sender. Exactly one of the two messages is sent, exactly once,
// without blocking the caller; nothing is ever thrown back into the
// caller's context.
func PipeResult[T any](f *future.Future[T], recipient UncheckedTeller, sender runtime.Ref) {
	f.OnComplete(func(v T, err error) {
		if err != nil {
			recipient.Send(Failure{Err: err}, sender)
			return
		}
		recipient.Send(v, sender)
	})
}

// PipeTo is [PipeResult] with no sender.
func PipeTo[T any](f *future.Future[T], recipient UncheckedTeller) {
	PipeResult(f, recipient, runtime.NoSender)
}

// PipeInto is [PipeTo] with the arguments reversed, for call sites that
// read better recipient-first.
func PipeInto[T any](recipient UncheckedTeller, f *future.Future[T]) {
	PipeResult(f, recipient, runtime.NoSender)
}
