package typed

import (
	"context"
	"time"

	"github.com/codewandler/tref-go/core/future"
	"github.com/codewandler/tref-go/core/runtime"
)

type (
	// Teller is the send-only capability: fire-and-forget delivery of a
	// single message type. Tell never blocks on delivery and never reports
	// delivery failures; those belong to the runtime.
	Teller[M any] interface {
		Tell(msg M, sender runtime.Ref)
	}

	// Asker extends Teller with request/response. The returned future
	// carries the raw reply; use the free function [Ask] to convert it to
	// the expected response type with a checked downcast.
	Asker[M any] interface {
		Teller[M]

		// Ask sends msg and returns a future for the reply. timeout <= 0
		// selects the runtime default.
		Ask(ctx context.Context, msg M, timeout time.Duration) *future.Future[any]
	}

	// Switchable extends Asker with the re-typing escape hatch: anything
	// exposing its underlying untyped reference can be re-typed via
	// [Switch].
	Switchable[M any] interface {
		Asker[M]
		runtime.Wrapper
	}

	// UncheckedTeller is the untyped send capability every typed reference
	// and selection exposes for interop; pipe failure values bypass the
	// message type restriction through it.
	UncheckedTeller interface {
		Send(msg any, sender runtime.Ref)
	}
)

// Switch produces a reference to the same recipient restricted to message
// type N. O(1): no resolution, no validation, no state beyond the shared
// underlying reference.
func Switch[N any](v runtime.Wrapper) Ref[N] {
	return Ref[N]{ref: runtime.Unwrap(v.Unwrap())}
}
