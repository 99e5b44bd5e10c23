package system

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

// localRef addresses an actor of one System by path. It is a pure
// address: constructing one never checks liveness, and two refs to the
// same path are equal regardless of how they were obtained.
type localRef struct {
	sys  *System
	path string
}

var _ runtime.Ref = (*localRef)(nil)

func (r *localRef) Path() string { return r.path }

func (r *localRef) String() string { return "system://" + r.sys.name + r.path }

func (r *localRef) Send(msg any, sender runtime.Ref) {
	if err := r.sys.deliver(r.path, envelope{msg: msg, sender: sender}); err != nil {
		r.sys.metrics.MessageDropped(r.path)
		r.sys.log.Debug("message dropped",
			slog.String("path", r.path),
			slog.Any("error", err),
		)
	}
}

func (r *localRef) Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any] {
	if timeout <= 0 {
		timeout = r.sys.askTimeout
	}

	p := future.NewPromise[any]()
	f := p.Future()

	env := envelope{msg: msg, sender: runtime.SenderFrom(ctx), reply: p}
	if err := r.sys.deliver(r.path, env); err != nil {
		p.Fail(fmt.Errorf("%w: %s", err, r.path))
		r.sys.metrics.RequestCompleted(requestOutcome(err))
		return f
	}

	tmr := time.AfterFunc(timeout, func() {
		p.Fail(fmt.Errorf("%w after %s: %s", runtime.ErrTimeout, timeout, r.path))
	})
	stop := context.AfterFunc(ctx, func() {
		p.Fail(ctx.Err())
	})
	f.OnComplete(func(_ any, err error) {
		tmr.Stop()
		stop()
		r.sys.metrics.RequestCompleted(requestOutcome(err))
	})

	return f
}

func requestOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, runtime.ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, runtime.ErrNoRecipient), errors.Is(err, runtime.ErrMailboxFull):
		return "undeliverable"
	default:
		return "error"
	}
}

// Equal compares by string form, unwrapping typed facades first.
func (r *localRef) Equal(other any) bool {
	if w, ok := other.(runtime.Wrapper); ok {
		other = runtime.Unwrap(w.Unwrap())
	}
	o, ok := other.(runtime.Ref)
	return ok && o != nil && o.String() == r.String()
}

func (r *localRef) Hash() uint64 { return runtime.HashString(r.String()) }

func (r *localRef) Compare(other runtime.Ref) int {
	if other == nil {
		return 1
	}
	return strings.Compare(r.String(), runtime.Unwrap(other).String())
}

func (r *localRef) Surrogate(runtime.SurrogateContext) (runtime.Surrogate, error) {
	return &RefSurrogate{Path: r.path}, nil
}
