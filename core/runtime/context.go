package runtime

import "context"

type senderKey struct{}

// WithSender returns a context carrying sender as the implicit message
// source. Runtime bindings install it on handler contexts so sends issued
// from inside a message handler can default their sender to the handling
// actor — explicit context passing instead of a process-wide ambient lookup.
func WithSender(ctx context.Context, sender Ref) context.Context {
	return context.WithValue(ctx, senderKey{}, sender)
}

// SenderFrom returns the sender carried by ctx, or NoSender when absent.
func SenderFrom(ctx context.Context) Ref {
	if s, ok := ctx.Value(senderKey{}).(Ref); ok {
		return s
	}
	return NoSender
}
