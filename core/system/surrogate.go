package system

import "github.com/codewandler/tref-go/core/runtime"

// RefSurrogate is the marshal-safe stand-in for a local reference: the
// actor path only. Restoring it against a System (or any
// [runtime.SurrogateContext]) yields a reference equal to the original.
type RefSurrogate struct {
	Path string `json:"path"`
}

var _ runtime.Surrogate = (*RefSurrogate)(nil)

func (s *RefSurrogate) Restore(sctx runtime.SurrogateContext) (runtime.Ref, error) {
	return sctx.RefByPath(s.Path)
}
