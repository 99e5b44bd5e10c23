package system

import (
	"context"
	"log/slog"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

// Handler processes the messages delivered to one actor's mailbox. Receive
// is called sequentially per actor; a handler never sees two of its own
// messages concurrently.
type Handler interface {
	Receive(c *Context)
}

// HandlerFunc adapts a plain function to [Handler].
type HandlerFunc func(c *Context)

func (f HandlerFunc) Receive(c *Context) { f(c) }

// Context carries one delivered message together with the capabilities a
// handler needs: identity, the sender, reply, and spawn access.
type Context struct {
	ctx    context.Context
	sys    *System
	self   runtime.Ref
	sender runtime.Ref
	msg    any
	reply  *future.Promise[any]
	log    *slog.Logger
}

// Context returns the actor's context. It is canceled when the actor
// stops and carries the actor's own reference as the implicit sender, so
// typed operators called with it identify this actor as the origin.
func (c *Context) Context() context.Context { return c.ctx }

func (c *Context) System() *System { return c.sys }

// Self is the reference of the actor handling the message.
func (c *Context) Self() runtime.Ref { return c.self }

// Sender is the reference the message was sent from, or nil.
func (c *Context) Sender() runtime.Ref { return c.sender }

// Message is the delivered payload.
func (c *Context) Message() any { return c.msg }

func (c *Context) Log() *slog.Logger { return c.log }

// Reply answers the current message. A pending request is settled with v;
// a told message with a known sender gets v sent back from this actor;
// otherwise the reply is dropped and logged.
func (c *Context) Reply(v any) {
	if c.reply != nil {
		c.reply.Complete(v)
		return
	}
	if c.sender != nil {
		c.sender.Send(v, c.self)
		return
	}
	c.log.Warn("reply dropped: no pending request and no sender")
}

// ReplyErr fails a pending request with err. Without a pending request
// the error is dropped and logged; told messages have no failure channel.
func (c *Context) ReplyErr(err error) {
	if c.reply != nil {
		c.reply.Fail(err)
		return
	}
	c.log.Warn("error reply dropped: no pending request", slog.Any("error", err))
}
