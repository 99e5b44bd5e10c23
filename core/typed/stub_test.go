package typed

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

// The stubs below implement just enough of the runtime contracts to exercise
// the facade: recorded sends, canned replies, path-keyed identity.

type sent struct {
	msg    any
	sender runtime.Ref
}

type stubRef struct {
	path string

	mu   sync.Mutex
	sent []sent

	// reply produces the raw ask reply; nil means asks never settle.
	reply func(msg any) (any, error)
}

func newStubRef(path string) *stubRef { return &stubRef{path: path} }

func (r *stubRef) record(msg any, sender runtime.Ref) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{msg: msg, sender: sender})
}

func (r *stubRef) recorded() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}

func (r *stubRef) Path() string { return r.path }

func (r *stubRef) Send(msg any, sender runtime.Ref) { r.record(msg, sender) }

func (r *stubRef) Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any] {
	r.record(msg, nil)
	if r.reply == nil {
		return future.NewPromise[any]().Future()
	}
	v, err := r.reply(msg)
	if err != nil {
		return future.Failed[any](err)
	}
	return future.Completed(v)
}

func (r *stubRef) Equal(other any) bool {
	o, ok := other.(runtime.Ref)
	return ok && o != nil && o.String() == r.String()
}

func (r *stubRef) Hash() uint64 { return runtime.HashString(r.String()) }

func (r *stubRef) Compare(other runtime.Ref) int {
	return strings.Compare(r.String(), other.String())
}

func (r *stubRef) String() string { return "stub://" + r.path }

func (r *stubRef) Surrogate(_ runtime.SurrogateContext) (runtime.Surrogate, error) {
	return stubSurrogate{Path: r.path}, nil
}

type stubSurrogate struct {
	Path string `json:"path"`
}

func (s stubSurrogate) Restore(sctx runtime.SurrogateContext) (runtime.Ref, error) {
	return sctx.RefByPath(s.Path)
}

// stubWorld doubles as surrogate context and selection factory.
type stubWorld struct {
	mu   sync.Mutex
	refs map[string]*stubRef
}

func newStubWorld() *stubWorld { return &stubWorld{refs: make(map[string]*stubRef)} }

func (w *stubWorld) ref(path string) *stubRef {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.refs[path]
	if !ok {
		r = newStubRef(path)
		w.refs[path] = r
	}
	return r
}

func (w *stubWorld) RefByPath(path string) (runtime.Ref, error) {
	return w.ref(path), nil
}

func (w *stubWorld) Selection(path string) runtime.Selection {
	elems := strings.Split(strings.Trim(path, "/"), "/")
	return &stubSelection{world: w, elems: elems}
}

type stubSelection struct {
	world *stubWorld

	mu    sync.Mutex
	elems []string

	resolveTo runtime.Ref
	sent      []sent
}

func (s *stubSelection) Anchor() runtime.Ref { return s.world.ref("/") }

func (s *stubSelection) Path() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.elems...)
}

func (s *stubSelection) PathString() string {
	return "/" + strings.Join(s.Path(), "/")
}

func (s *stubSelection) SetPath(elements []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elems = append([]string(nil), elements...)
}

func (s *stubSelection) Send(msg any, sender runtime.Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sent{msg: msg, sender: sender})
}

func (s *stubSelection) Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any] {
	s.Send(msg, nil)
	return future.NewPromise[any]().Future()
}

func (s *stubSelection) ResolveOne(ctx context.Context, timeout time.Duration) *future.Future[runtime.Ref] {
	if s.resolveTo == nil {
		return future.Failed[runtime.Ref](runtime.ErrResolveTimeout)
	}
	return future.Completed(s.resolveTo)
}

func (s *stubSelection) Equal(other runtime.Selection) bool {
	return other != nil && other.PathString() == s.PathString()
}

func (s *stubSelection) Hash() uint64 { return runtime.HashString(s.String()) }

func (s *stubSelection) String() string { return "stub://sel" + s.PathString() }
