package nats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/tref-go/core/codec"
	"github.com/codewandler/tref-go/core/runtime"
)

// probeType marks resolve probes. It is not a registered message type and
// never reaches handlers.
const probeType = "$probe"

var ErrClosed = fmt.Errorf("nats runtime closed")

type Options struct {
	Connect       Connector       // Connect creates the underlying connection. If nil, ConnectDefault() is used.
	Log           *slog.Logger    // Log for diagnostics (optional)
	SubjectPrefix string          // SubjectPrefix for actor subjects, e.g. "tref" -> tref.user.echo. Default "tref".
	Codec         *codec.Registry // Codec holds the message types crossing this runtime. Required.
	AskTimeout    time.Duration   // Default request timeout. Default 5s.
}

// Runtime binds references and selections to NATS subjects. It implements
// [runtime.Factory] and [runtime.SurrogateContext].
type Runtime struct {
	nc         *natsgo.Conn
	closeNc    closeFunc
	log        *slog.Logger
	prefix     string
	codec      *codec.Registry
	askTimeout time.Duration

	mu   sync.Mutex
	subs map[*natsgo.Subscription]struct{}

	closed atomic.Bool
}

var (
	_ runtime.Factory          = (*Runtime)(nil)
	_ runtime.SurrogateContext = (*Runtime)(nil)
)

// envelope is the wire form of one message.
type envelope struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Sender  string          `json:"sender,omitempty"`   // sender path, if any
	ReplyTo string          `json:"reply_to,omitempty"` // inbox subject for requests
}

// responseFrame is the wire form of one reply.
type responseFrame struct {
	Type string          `json:"type,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
	Err  string          `json:"err,omitempty"`
}

func New(opts Options) (*Runtime, error) {
	if opts.Codec == nil {
		return nil, fmt.Errorf("nats: Options.Codec is required")
	}

	connFn := opts.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	prefix := opts.SubjectPrefix
	if prefix == "" {
		prefix = "tref"
	}
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = 5 * time.Second
	}

	nc, closeNc, err := connFn()
	if err != nil {
		return nil, err
	}

	return &Runtime{
		nc:         nc,
		closeNc:    closeNc,
		log:        log.With(slog.String("runtime", "nats")),
		prefix:     prefix,
		codec:      opts.Codec,
		askTimeout: opts.AskTimeout,
		subs:       make(map[*natsgo.Subscription]struct{}),
	}, nil
}

// Ref returns a reference addressing path over this runtime.
func (rt *Runtime) Ref(path string) runtime.Ref {
	return &natsRef{rt: rt, path: path}
}

// RefByPath implements [runtime.SurrogateContext].
func (rt *Runtime) RefByPath(path string) (runtime.Ref, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("nats: path must be absolute: %q", path)
	}
	return &natsRef{rt: rt, path: path}, nil
}

// Selection implements [runtime.Factory].
func (rt *Runtime) Selection(path string) runtime.Selection {
	return &natsSelection{rt: rt, elems: splitPath(path)}
}

// Subscribe exposes a handler at path: messages published to the path's
// subject are decoded and handed to h, one goroutine per message. Resolve
// probes are answered here, without involving the handler.
func (rt *Runtime) Subscribe(path string, h Handler) (*Subscription, error) {
	if rt.closed.Load() {
		return nil, ErrClosed
	}

	subj := rt.subjectFor(path)
	sub, err := rt.nc.Subscribe(subj, func(msg *natsgo.Msg) {
		rt.dispatch(path, msg, h)
	})
	if err != nil {
		return nil, fmt.Errorf("nats: subscribe %s: %w", subj, err)
	}

	rt.mu.Lock()
	rt.subs[sub] = struct{}{}
	rt.mu.Unlock()

	rt.log.Debug("subscribed", slog.String("path", path), slog.String("subject", subj))
	return &Subscription{sub: sub, rt: rt}, nil
}

func (rt *Runtime) dispatch(path string, msg *natsgo.Msg, h Handler) {
	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		rt.log.Error("failed to decode envelope", slog.Any("error", err))
		return
	}

	// A probe only wants to learn which concrete path answers here.
	if env.Type == probeType {
		if env.ReplyTo != "" {
			rt.respond(env.ReplyTo, responseFrame{Data: jsonString(path)})
		}
		return
	}

	decoded, err := rt.codec.Unmarshal(env.Type, env.Data)
	if err != nil {
		rt.log.Error("failed to decode message",
			slog.String("msg_type", env.Type),
			slog.Any("error", err),
		)
		if env.ReplyTo != "" {
			rt.respond(env.ReplyTo, responseFrame{Err: err.Error()})
		}
		return
	}

	var sender runtime.Ref
	if env.Sender != "" {
		sender = &natsRef{rt: rt, path: env.Sender}
	}

	h.Receive(&Context{
		rt:      rt,
		path:    path,
		sender:  sender,
		msg:     decoded,
		replyTo: env.ReplyTo,
	})
}

// respond publishes a response frame, logging failures.
func (rt *Runtime) respond(replyTo string, rf responseFrame) {
	b, _ := json.Marshal(rf)
	if err := rt.nc.Publish(replyTo, b); err != nil {
		rt.log.Error("failed to publish reply", slog.Any("error", err))
	}
}

// publish encodes msg into an envelope and sends it to subject.
func (rt *Runtime) publish(subject string, msg any, sender runtime.Ref, replyTo string) error {
	if rt.closed.Load() {
		return ErrClosed
	}

	msgType, data, err := rt.codec.Marshal(msg)
	if err != nil {
		return err
	}

	env := envelope{Type: msgType, Data: data, ReplyTo: replyTo}
	if sender != nil {
		env.Sender = runtime.Unwrap(sender).Path()
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("nats: encode envelope: %w", err)
	}
	if err := rt.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("nats: publish %s: %w", subject, err)
	}
	return nil
}

func (rt *Runtime) Close() error {
	if rt.closed.Swap(true) {
		return ErrClosed
	}
	rt.mu.Lock()
	for s := range rt.subs {
		_ = s.Unsubscribe()
	}
	rt.subs = map[*natsgo.Subscription]struct{}{}
	rt.mu.Unlock()
	if rt.nc != nil {
		_ = rt.nc.Drain()
		rt.closeNc()
	}
	return nil
}

// subjectFor maps an actor path to its subject: elements become tokens,
// so path wildcards line up with subject wildcards.
func (rt *Runtime) subjectFor(path string) string {
	elems := splitPath(path)
	if len(elems) == 0 {
		return rt.prefix
	}
	return rt.prefix + "." + strings.Join(elems, ".")
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func jsonString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// Subscription is a live handler registration.
type Subscription struct {
	sub *natsgo.Subscription
	rt  *Runtime
}

func (s *Subscription) Unsubscribe() error {
	if s.sub == nil {
		return nil
	}
	err := s.sub.Unsubscribe()
	s.rt.mu.Lock()
	delete(s.rt.subs, s.sub)
	s.rt.mu.Unlock()
	return err
}
