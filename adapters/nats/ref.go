package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

// natsRef addresses a path over the wire. Like its in-process counterpart
// it is a pure address; nothing checks that anyone is subscribed.
type natsRef struct {
	rt   *Runtime
	path string
}

var _ runtime.Ref = (*natsRef)(nil)

func (r *natsRef) Path() string { return r.path }

func (r *natsRef) String() string { return "nats://" + r.rt.prefix + r.path }

func (r *natsRef) Send(msg any, sender runtime.Ref) {
	if err := r.rt.publish(r.rt.subjectFor(r.path), msg, sender, ""); err != nil {
		r.rt.log.Debug("message dropped",
			slog.String("path", r.path),
			slog.Any("error", err),
		)
	}
}

func (r *natsRef) Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any] {
	if timeout <= 0 {
		timeout = r.rt.askTimeout
	}

	p := future.NewPromise[any]()
	f := p.Future()

	inbox := natsgo.NewInbox()
	ch := make(chan *natsgo.Msg, 1)
	sub, err := r.rt.nc.ChanSubscribe(inbox, ch)
	if err != nil {
		p.Fail(fmt.Errorf("nats: subscribe inbox: %w", err))
		return f
	}

	if err := r.rt.publish(r.rt.subjectFor(r.path), msg, runtime.SenderFrom(ctx), inbox); err != nil {
		_ = sub.Unsubscribe()
		p.Fail(err)
		return f
	}

	go func() {
		defer func() { _ = sub.Unsubscribe() }()
		select {
		case <-ctx.Done():
			p.Fail(ctx.Err())
		case <-time.After(timeout):
			p.Fail(fmt.Errorf("%w after %s: %s", runtime.ErrTimeout, timeout, r.path))
		case m := <-ch:
			settleReply(r.rt, p, m)
		}
	}()

	return f
}

// settleReply decodes a response frame into the promise.
func settleReply(rt *Runtime, p *future.Promise[any], m *natsgo.Msg) {
	var rf responseFrame
	if err := json.Unmarshal(m.Data, &rf); err != nil {
		p.Fail(fmt.Errorf("nats: decode response: %w", err))
		return
	}
	if rf.Err != "" {
		p.Fail(fmt.Errorf("nats: remote error: %s", rf.Err))
		return
	}
	v, err := rt.codec.Unmarshal(rf.Type, rf.Data)
	if err != nil {
		p.Fail(err)
		return
	}
	p.Complete(v)
}

func (r *natsRef) Equal(other any) bool {
	if w, ok := other.(runtime.Wrapper); ok {
		other = runtime.Unwrap(w.Unwrap())
	}
	o, ok := other.(runtime.Ref)
	return ok && o != nil && o.String() == r.String()
}

func (r *natsRef) Hash() uint64 { return runtime.HashString(r.String()) }

func (r *natsRef) Compare(other runtime.Ref) int {
	if other == nil {
		return 1
	}
	return strings.Compare(r.String(), runtime.Unwrap(other).String())
}

func (r *natsRef) Surrogate(runtime.SurrogateContext) (runtime.Surrogate, error) {
	return &RefSurrogate{Path: r.path}, nil
}
