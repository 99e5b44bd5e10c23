package nats

import "github.com/codewandler/tref-go/core/runtime"

// RefSurrogate is the marshal-safe stand-in for a wire reference: the
// actor path only. It restores against any [runtime.SurrogateContext], so
// a reference exported on one binding can be re-attached on another.
type RefSurrogate struct {
	Path string `json:"path"`
}

var _ runtime.Surrogate = (*RefSurrogate)(nil)

func (s *RefSurrogate) Restore(sctx runtime.SurrogateContext) (runtime.Ref, error) {
	return sctx.RefByPath(s.Path)
}
