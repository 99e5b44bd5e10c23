package runtime

import (
	"context"
	"time"

	"github.com/codewandler/tref-go/core/future"
)

// Selection is an unresolved address pattern: a path whose elements may
// contain wildcards, anchored at a reference. It may denote zero, one, or
// many live recipients, and it can be sent to without resolving first —
// fan-out semantics belong to the runtime.
type Selection interface {
	// Anchor returns the reference the pattern is anchored at.
	Anchor() Ref

	// Path returns a copy of the pattern's path elements.
	Path() []string

	// PathString returns the pattern as a single path string.
	PathString() string

	// SetPath atomically replaces the pattern's path elements.
	SetPath(elements []string)

	// Send delivers msg to every current match, fire-and-forget.
	Send(msg any, sender Ref)

	// Request sends msg to the pattern's unique match and returns a future
	// for the reply. A pattern with no or several matches fails the future.
	Request(ctx context.Context, msg any, timeout time.Duration) *future.Future[any]

	// ResolveOne settles with the single live reference matching the
	// pattern, or fails with ErrResolveTimeout when no unique match appears
	// before the deadline.
	ResolveOne(ctx context.Context, timeout time.Duration) *future.Future[Ref]

	// Equal reports whether other denotes the same pattern in the same
	// runtime.
	Equal(other Selection) bool

	// Hash returns a hash consistent with Equal.
	Hash() uint64

	String() string
}

// Factory creates selections. Runtime bindings implement it; the typed
// facade builds typed selections through it.
type Factory interface {
	Selection(path string) Selection
}
