package system

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

// resolvePollInterval is how often an unresolved selection re-scans the
// actor directory while waiting for a unique match.
const resolvePollInterval = 5 * time.Millisecond

// localSelection matches live actor paths element-wise against a pattern.
// Each element may use the "*" wildcard (path.Match syntax); a pattern
// never matches across element boundaries.
type localSelection struct {
	sys *System

	mu    sync.Mutex
	elems []string
}

var _ runtime.Selection = (*localSelection)(nil)

func (s *localSelection) Anchor() runtime.Ref {
	return &localRef{sys: s.sys, path: "/"}
}

func (s *localSelection) Path() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.elems))
	copy(out, s.elems)
	return out
}

func (s *localSelection) PathString() string {
	return "/" + strings.Join(s.Path(), "/")
}

func (s *localSelection) SetPath(elements []string) {
	cp := make([]string, len(elements))
	copy(cp, elements)
	s.mu.Lock()
	s.elems = cp
	s.mu.Unlock()
}

func (s *localSelection) Send(msg any, sender runtime.Ref) {
	for _, p := range s.matches() {
		ref := localRef{sys: s.sys, path: p}
		ref.Send(msg, sender)
	}
}

func (s *localSelection) Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any] {
	m := s.matches()
	switch len(m) {
	case 1:
		ref := localRef{sys: s.sys, path: m[0]}
		return ref.Request(ctx, msg, timeout)
	case 0:
		return future.Failed[any](fmt.Errorf("%w: %s", runtime.ErrNoRecipient, s.PathString()))
	default:
		return future.Failed[any](fmt.Errorf("%w: %s matches %d actors", runtime.ErrNotUnique, s.PathString(), len(m)))
	}
}

func (s *localSelection) ResolveOne(ctx context.Context, timeout time.Duration) *future.Future[runtime.Ref] {
	if timeout <= 0 {
		timeout = s.sys.askTimeout
	}

	p := future.NewPromise[runtime.Ref]()

	try := func() bool {
		m := s.matches()
		if len(m) != 1 {
			return false
		}
		p.Complete(&localRef{sys: s.sys, path: m[0]})
		s.sys.metrics.ResolveCompleted(true)
		return true
	}

	if try() {
		return p.Future()
	}

	go func() {
		deadline := time.NewTimer(timeout)
		defer deadline.Stop()
		tick := time.NewTicker(resolvePollInterval)
		defer tick.Stop()

		for {
			select {
			case <-ctx.Done():
				p.Fail(ctx.Err())
				s.sys.metrics.ResolveCompleted(false)
				return
			case <-deadline.C:
				p.Fail(fmt.Errorf("%w after %s: %s", runtime.ErrResolveTimeout, timeout, s.PathString()))
				s.sys.metrics.ResolveCompleted(false)
				return
			case <-tick.C:
				if try() {
					return
				}
			}
		}
	}()

	return p.Future()
}

func (s *localSelection) Equal(other runtime.Selection) bool {
	o, ok := other.(*localSelection)
	return ok && o.sys == s.sys && o.PathString() == s.PathString()
}

func (s *localSelection) Hash() uint64 {
	return runtime.HashString(s.String())
}

func (s *localSelection) String() string {
	return fmt.Sprintf("selection[system://%s%s]", s.sys.name, s.PathString())
}

// matches returns the live actor paths the pattern currently denotes.
func (s *localSelection) matches() []string {
	pattern := s.Path()
	var out []string
	for _, candidate := range s.sys.paths() {
		if matchPath(pattern, splitPath(candidate)) {
			out = append(out, candidate)
		}
	}
	return out
}

func matchPath(pattern, elems []string) bool {
	if len(pattern) != len(elems) {
		return false
	}
	for i, pat := range pattern {
		ok, err := path.Match(pat, elems[i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}
