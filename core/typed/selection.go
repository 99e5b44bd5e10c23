package typed

import (
	"context"
	"time"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
	"github.com/codewandler/tref-go/internal/reflector"
)

// Selection restricts an untyped, not-yet-resolved path pattern to messages
// of type M. Unlike [Ref], a selection's message type is part of its
// identity: the resolved target type is part of what a pattern means, while
// a reference's address is not — so Selection[A] and Selection[B] over the
// same pattern are unequal and hash differently.
type Selection[M any] struct {
	sel runtime.Selection
}

// Select builds a typed selection over path using the runtime's factory.
func Select[M any](f runtime.Factory, path string) Selection[M] {
	return Selection[M]{sel: f.Selection(path)}
}

// WrapSelection narrows an existing untyped selection to message type M.
func WrapSelection[M any](sel runtime.Selection) Selection[M] {
	return Selection[M]{sel: sel}
}

// Unwrap returns the wrapped untyped selection.
func (s Selection[M]) Unwrap() runtime.Selection { return s.sel }

// Anchor returns the selection's anchor point, re-typed.
func (s Selection[M]) Anchor() Ref[M] { return Wrap[M](s.sel.Anchor()) }

// Path returns a copy of the pattern's path elements.
func (s Selection[M]) Path() []string { return s.sel.Path() }

// PathString returns the pattern as a single path string.
func (s Selection[M]) PathString() string { return s.sel.PathString() }

// SetPath atomically replaces the pattern's path elements.
func (s Selection[M]) SetPath(elements []string) { s.sel.SetPath(elements) }

// Tell delivers msg to every current match, fire-and-forget, without
// requiring resolution first. Fan-out semantics belong to the runtime.
func (s Selection[M]) Tell(msg M, sender runtime.Ref) {
	s.sel.Send(msg, runtime.Unwrap(sender))
}

// Send is the untyped interop capability, as on [Ref].
func (s Selection[M]) Send(msg any, sender runtime.Ref) {
	s.sel.Send(msg, runtime.Unwrap(sender))
}

// Ask forwards to the underlying selection's request primitive.
func (s Selection[M]) Ask(ctx context.Context, msg M, timeout time.Duration) *future.Future[any] {
	return s.sel.Request(ctx, msg, timeout)
}

// ResolveOne settles with the single live reference matching the pattern,
// re-typed as M, or fails with [runtime.ErrResolveTimeout] when no unique
// match appears before the deadline.
func (s Selection[M]) ResolveOne(ctx context.Context, timeout time.Duration) *future.Future[Ref[M]] {
	return future.Convert(s.sel.ResolveOne(ctx, timeout), func(r runtime.Ref) (Ref[M], error) {
		return Wrap[M](r), nil
	})
}

// MessageType returns the fully qualified name of M, the selection's type
// marker.
func (s Selection[M]) MessageType() string {
	return reflector.TypeInfoFor[M]().Name
}

// Equal reports whether other is a typed selection over the same pattern
// with the same message type. Equality on the pattern is delegated to the
// underlying selection, short-circuited by identity.
func (s Selection[M]) Equal(other any) bool {
	o, ok := other.(interface {
		Unwrap() runtime.Selection
		MessageType() string
	})
	if !ok {
		return false
	}
	if o.MessageType() != s.MessageType() {
		return false
	}
	if o.Unwrap() == s.sel {
		return true
	}
	return s.sel.Equal(o.Unwrap())
}

// Hash combines the underlying selection's hash with the type marker's
// hash, consistent with Equal.
func (s Selection[M]) Hash() uint64 {
	return s.sel.Hash() ^ runtime.HashString(s.MessageType())
}

// String returns the underlying selection's string form.
func (s Selection[M]) String() string { return s.sel.String() }

var _ Asker[int] = Selection[int]{}
