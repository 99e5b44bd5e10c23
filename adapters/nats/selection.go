package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

// probeInterval is how often an unresolved selection re-publishes its
// probe while waiting for a responder.
const probeInterval = 250 * time.Millisecond

// natsSelection is an address pattern over subjects. Sends fan out via
// subject wildcards; requests and probes take the first responder, since
// the wire cannot enumerate subscribers.
type natsSelection struct {
	rt *Runtime

	mu    sync.Mutex
	elems []string
}

var _ runtime.Selection = (*natsSelection)(nil)

func (s *natsSelection) Anchor() runtime.Ref {
	return &natsRef{rt: s.rt, path: "/"}
}

func (s *natsSelection) Path() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.elems))
	copy(out, s.elems)
	return out
}

func (s *natsSelection) PathString() string {
	return "/" + strings.Join(s.Path(), "/")
}

func (s *natsSelection) SetPath(elements []string) {
	cp := make([]string, len(elements))
	copy(cp, elements)
	s.mu.Lock()
	s.elems = cp
	s.mu.Unlock()
}

func (s *natsSelection) subject() string {
	return s.rt.subjectFor(s.PathString())
}

func (s *natsSelection) Send(msg any, sender runtime.Ref) {
	if err := s.rt.publish(s.subject(), msg, sender, ""); err != nil {
		s.rt.log.Debug("selection send dropped",
			slog.String("pattern", s.PathString()),
			slog.Any("error", err),
		)
	}
}

// Request publishes to the pattern subject and settles with the first
// reply. Unlike the in-process binding, uniqueness cannot be enforced
// here; with several subscribers the fastest responder wins.
func (s *natsSelection) Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any] {
	if timeout <= 0 {
		timeout = s.rt.askTimeout
	}

	p := future.NewPromise[any]()
	f := p.Future()

	inbox := natsgo.NewInbox()
	ch := make(chan *natsgo.Msg, 1)
	sub, err := s.rt.nc.ChanSubscribe(inbox, ch)
	if err != nil {
		p.Fail(fmt.Errorf("nats: subscribe inbox: %w", err))
		return f
	}

	if err := s.rt.publish(s.subject(), msg, runtime.SenderFrom(ctx), inbox); err != nil {
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
			p.Fail(fmt.Errorf("%w after %s: %s", runtime.ErrTimeout, timeout, s.PathString()))
		case m := <-ch:
			settleReply(s.rt, p, m)
		}
	}()

	return f
}

// ResolveOne probes the pattern subject until a subscriber answers with
// its concrete path, then settles with a reference to that path.
func (s *natsSelection) ResolveOne(ctx context.Context, timeout time.Duration) *future.Future[runtime.Ref] {
	if timeout <= 0 {
		timeout = s.rt.askTimeout
	}

	p := future.NewPromise[runtime.Ref]()
	f := p.Future()

	inbox := natsgo.NewInbox()
	ch := make(chan *natsgo.Msg, 1)
	sub, err := s.rt.nc.ChanSubscribe(inbox, ch)
	if err != nil {
		p.Fail(fmt.Errorf("nats: subscribe inbox: %w", err))
		return f
	}

	probe := func() error {
		env := envelope{Type: probeType, ReplyTo: inbox}
		payload, _ := json.Marshal(env)
		return s.rt.nc.Publish(s.subject(), payload)
	}
	if err := probe(); err != nil {
		_ = sub.Unsubscribe()
		p.Fail(fmt.Errorf("nats: publish probe: %w", err))
		return f
	}

	go func() {
		defer func() { _ = sub.Unsubscribe() }()

		deadline := time.NewTimer(timeout)
		defer deadline.Stop()
		tick := time.NewTicker(probeInterval)
		defer tick.Stop()

		for {
			select {
			case <-ctx.Done():
				p.Fail(ctx.Err())
				return
			case <-deadline.C:
				p.Fail(fmt.Errorf("%w after %s: %s", runtime.ErrResolveTimeout, timeout, s.PathString()))
				return
			case <-tick.C:
				if err := probe(); err != nil {
					p.Fail(fmt.Errorf("nats: publish probe: %w", err))
					return
				}
			case m := <-ch:
				var rf responseFrame
				if err := json.Unmarshal(m.Data, &rf); err != nil {
					p.Fail(fmt.Errorf("nats: decode probe response: %w", err))
					return
				}
				var path string
				if err := json.Unmarshal(rf.Data, &path); err != nil {
					p.Fail(fmt.Errorf("nats: decode probe path: %w", err))
					return
				}
				p.Complete(&natsRef{rt: s.rt, path: path})
				return
			}
		}
	}()

	return f
}

func (s *natsSelection) Equal(other runtime.Selection) bool {
	o, ok := other.(*natsSelection)
	return ok && o.rt == s.rt && o.PathString() == s.PathString()
}

func (s *natsSelection) Hash() uint64 {
	return runtime.HashString(s.String())
}

func (s *natsSelection) String() string {
	return fmt.Sprintf("selection[nats://%s%s]", s.rt.prefix, s.PathString())
}
