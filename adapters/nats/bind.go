package nats

import (
	"context"

	"github.com/codewandler/tref-go/core/system"
)

// Bind exposes a local actor on the wire: messages arriving at the
// actor's path are forwarded into its mailbox, and its replies travel
// back to the remote caller. The actor keeps processing local and remote
// messages through the same mailbox.
func Bind(rt *Runtime, sys *system.System, path string) (*Subscription, error) {
	local, err := sys.RefByPath(path)
	if err != nil {
		return nil, err
	}

	return rt.Subscribe(path, HandlerFunc(func(c *Context) {
		if c.replyTo == "" {
			local.Send(c.Message(), c.Sender())
			return
		}
		f := local.Request(context.Background(), c.Message(), rt.askTimeout)
		f.OnComplete(func(v any, err error) {
			if err != nil {
				c.ReplyErr(err)
				return
			}
			c.Reply(v)
		})
	}))
}
