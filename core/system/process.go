package system

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
	"github.com/codewandler/tref-go/internal/reflector"
)

// envelope is one mailbox entry. reply is non-nil for requests.
type envelope struct {
	msg    any
	sender runtime.Ref
	reply  *future.Promise[any]
}

type process struct {
	sys     *System
	path    string
	handler Handler
	mailbox chan envelope
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	log     *slog.Logger
}

func newProcess(s *System, path string, h Handler) *process {
	ctx, cancel := context.WithCancel(s.ctx)
	return &process{
		sys:     s,
		path:    path,
		handler: h,
		mailbox: make(chan envelope, s.mailboxSize),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     s.log.With(slog.String("path", path)),
	}
}

func (p *process) enqueue(env envelope) error {
	select {
	case <-p.ctx.Done():
		return runtime.ErrNoRecipient
	default:
	}
	select {
	case p.mailbox <- env:
		p.sys.metrics.MailboxDepth(p.path, len(p.mailbox))
		return nil
	default:
		return runtime.ErrMailboxFull
	}
}

func (p *process) run() {
	defer close(p.done)
	defer p.sys.remove(p.path)
	p.log.Debug("actor started")

	for {
		select {
		case <-p.ctx.Done():
			p.failPending()
			p.log.Debug("actor stopped")
			return
		case env := <-p.mailbox:
			p.invoke(env)
		}
	}
}

// failPending drains the mailbox on shutdown so requesters are not left
// hanging until their timeout.
func (p *process) failPending() {
	for {
		select {
		case env := <-p.mailbox:
			if env.reply != nil {
				env.reply.Fail(fmt.Errorf("%w: %s", runtime.ErrNoRecipient, p.path))
			}
		default:
			return
		}
	}
}

func (p *process) invoke(env envelope) {
	msgType := reflector.TypeInfoOf(env.msg).Name
	self := &localRef{sys: p.sys, path: p.path}
	c := &Context{
		ctx:    runtime.WithSender(p.ctx, self),
		sys:    p.sys,
		self:   self,
		sender: env.sender,
		msg:    env.msg,
		reply:  env.reply,
		log:    p.log,
	}

	tmr := p.sys.metrics.MessageDuration(msgType)
	defer tmr.ObserveDuration()

	defer func() {
		if r := recover(); r != nil {
			p.sys.metrics.MessageProcessed(msgType, false)
			p.log.Error("handler panicked",
				slog.Any("recovered", r),
				slog.String("msg_type", msgType),
			)
			if env.reply != nil {
				env.reply.Fail(fmt.Errorf("handler panic: %v", r))
			}
		}
	}()

	p.handler.Receive(c)
	p.sys.metrics.MessageProcessed(msgType, true)
}
