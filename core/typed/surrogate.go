package typed

import (
	"github.com/codewandler/tref-go/core/runtime"
)

// Surrogate is the marshal-safe, type-erased descriptor for a typed
// reference. It holds only the wrapped reference's own surrogate; the
// message type is deliberately absent from the wire form and must be
// supplied statically at the [Restore] call site. Both ends agreeing on the
// message type is trusted, not verified — a known safety gap of the design,
// not an oversight.
type Surrogate struct {
	Ref runtime.Surrogate `json:"ref"`
}

// Restore reconstructs the underlying untyped reference. This satisfies
// [runtime.Surrogate]; use the free function [Restore] to get the typed
// view back.
func (s Surrogate) Restore(sctx runtime.SurrogateContext) (runtime.Ref, error) {
	return s.Ref.Restore(sctx)
}

// Export produces the descriptor for r by delegating surrogate export to
// the wrapped reference.
func Export[M any](r Ref[M], sctx runtime.SurrogateContext) (Surrogate, error) {
	inner, err := r.Unwrap().Surrogate(sctx)
	if err != nil {
		return Surrogate{}, err
	}
	return Surrogate{Ref: inner}, nil
}

// Restore reconstructs a typed reference from a descriptor:
// Restore[M](Export(Wrap[M](r))) is equal to Wrap[M](r) under reference
// identity, for any r the runtime's own surrogate round-trip can reproduce.
func Restore[M any](s Surrogate, sctx runtime.SurrogateContext) (Ref[M], error) {
	inner, err := s.Ref.Restore(sctx)
	if err != nil {
		return Ref[M]{}, err
	}
	return Wrap[M](inner), nil
}
