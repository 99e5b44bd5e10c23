package system

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/tref-go/core/runtime"
)

type Options struct {
	Name        string          // Name identifies the system in reference string forms. Generated if empty.
	Log         *slog.Logger    // Log for diagnostics (optional)
	Metrics     Metrics         // Metrics sink (optional, defaults to no-op)
	MailboxSize int             // Per-actor mailbox capacity. Default 256.
	AskTimeout  time.Duration   // Default request timeout. Default 5s.
	Context     context.Context // Base context for actor loops (optional)
}

// System is a path-addressed in-process actor runtime.
type System struct {
	name        string
	log         *slog.Logger
	metrics     Metrics
	mailboxSize int
	askTimeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	procs  map[string]*process
	closed bool
}

func New(opts Options) *System {
	if opts.Name == "" {
		opts.Name = "sys-" + gonanoid.Must()
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics()
	}
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = 256
	}
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = 5 * time.Second
	}
	base := opts.Context
	if base == nil {
		base = context.Background()
	}

	ctx, cancel := context.WithCancel(base)

	return &System{
		name:        opts.Name,
		log:         opts.Log.With(slog.String("system", opts.Name)),
		metrics:     opts.Metrics,
		mailboxSize: opts.MailboxSize,
		askTimeout:  opts.AskTimeout,
		ctx:         ctx,
		cancel:      cancel,
		procs:       make(map[string]*process),
	}
}

func (s *System) Name() string { return s.name }

// Spawn starts an actor at path and returns its reference. An empty path
// gets a generated one under /user. The path must be literal (no
// wildcards) and not in use.
func (s *System) Spawn(path string, h Handler) (runtime.Ref, error) {
	if h == nil {
		return nil, fmt.Errorf("system: Spawn requires a handler")
	}
	if path == "" {
		path = "/user/" + gonanoid.Must()
	}
	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	if strings.Contains(path, "*") {
		return nil, fmt.Errorf("system: spawn path must be literal: %s", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStopped
	}
	if _, ok := s.procs[path]; ok {
		return nil, fmt.Errorf("%w: %s", ErrPathInUse, path)
	}

	p := newProcess(s, path, h)
	s.procs[path] = p
	go p.run()

	return &localRef{sys: s, path: path}, nil
}

// Ref returns a reference for path without checking liveness: sends to a
// path nothing lives at are dropped by delivery, not by construction.
func (s *System) Ref(path string) runtime.Ref {
	path, err := normalizePath(path)
	if err != nil {
		// Keep the raw path; delivery will fail to match anything.
		return &localRef{sys: s, path: path}
	}
	return &localRef{sys: s, path: path}
}

// RefByPath implements [runtime.SurrogateContext].
func (s *System) RefByPath(path string) (runtime.Ref, error) {
	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	return &localRef{sys: s, path: path}, nil
}

// Selection implements [runtime.Factory]. Path elements may contain the
// "*" wildcard.
func (s *System) Selection(path string) runtime.Selection {
	return &localSelection{sys: s, elems: splitPath(path)}
}

// Stop terminates the actor at path and removes it from the directory.
// Messages already mailed but not yet processed fail their pending
// requests; fire-and-forget messages are dropped.
func (s *System) Stop(path string) {
	s.mu.RLock()
	p := s.procs[path]
	s.mu.RUnlock()
	if p != nil {
		p.cancel()
		<-p.done
	}
}

// Shutdown stops all actors and rejects further spawns.
func (s *System) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	procs := make([]*process, 0, len(s.procs))
	for _, p := range s.procs {
		procs = append(procs, p)
	}
	s.mu.Unlock()

	s.cancel()
	for _, p := range procs {
		<-p.done
	}
	s.log.Debug("system shut down")
}

// deliver routes an envelope to the actor at path.
func (s *System) deliver(path string, env envelope) error {
	s.mu.RLock()
	p := s.procs[path]
	s.mu.RUnlock()
	if p == nil {
		return runtime.ErrNoRecipient
	}
	return p.enqueue(env)
}

// remove drops a terminated actor from the directory. Called by the
// process loop on exit.
func (s *System) remove(path string) {
	s.mu.Lock()
	delete(s.procs, path)
	s.mu.Unlock()
}

// paths returns a snapshot of all live actor paths.
func (s *System) paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.procs))
	for p := range s.procs {
		out = append(out, p)
	}
	return out
}

func normalizePath(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("system: path must be absolute: %q", path)
	}
	elems := splitPath(path)
	for _, e := range elems {
		if e == "" {
			return "", fmt.Errorf("system: path has empty element: %q", path)
		}
	}
	if len(elems) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(elems, "/"), nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
