package nats

import (
	"log/slog"

	"github.com/codewandler/tref-go/core/runtime"
)

// Handler processes messages arriving on a subscribed path. Each message
// runs on its own goroutine; handlers needing ordering serialize
// themselves (or bind a core/system actor, see [Bind]).
type Handler interface {
	Receive(c *Context)
}

// HandlerFunc adapts a plain function to [Handler].
type HandlerFunc func(c *Context)

func (f HandlerFunc) Receive(c *Context) { f(c) }

// Context carries one decoded message delivered over the wire.
type Context struct {
	rt      *Runtime
	path    string
	sender  runtime.Ref
	msg     any
	replyTo string
}

// Runtime is the binding the message arrived through.
func (c *Context) Runtime() *Runtime { return c.rt }

// Self is the reference of the subscribed path handling the message.
func (c *Context) Self() runtime.Ref { return c.rt.Ref(c.path) }

// Sender is the remote reference the message was sent from, or nil.
func (c *Context) Sender() runtime.Ref { return c.sender }

// Message is the decoded payload.
func (c *Context) Message() any { return c.msg }

// Reply answers the current message. A request gets v back on its inbox;
// a told message with a known sender gets v sent to the sender's subject;
// otherwise the reply is dropped and logged.
func (c *Context) Reply(v any) {
	if c.replyTo != "" {
		msgType, data, err := c.rt.codec.Marshal(v)
		if err != nil {
			c.rt.respond(c.replyTo, responseFrame{Err: err.Error()})
			return
		}
		c.rt.respond(c.replyTo, responseFrame{Type: msgType, Data: data})
		return
	}
	if c.sender != nil {
		c.sender.Send(v, c.Self())
		return
	}
	c.rt.log.Warn("reply dropped: no inbox and no sender", slog.String("path", c.path))
}

// ReplyErr fails a pending request with err.
func (c *Context) ReplyErr(err error) {
	if c.replyTo != "" {
		c.rt.respond(c.replyTo, responseFrame{Err: err.Error()})
		return
	}
	c.rt.log.Warn("error reply dropped: no inbox",
		slog.String("path", c.path),
		slog.Any("error", err),
	)
}
