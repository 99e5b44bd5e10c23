package runtime

// Surrogate is a marshal-safe, runtime-owned stand-in for a Ref, used only
// at serialization boundaries. The wire encoding of a surrogate belongs to
// the runtime binding that produced it.
type Surrogate interface {
	// Restore reconstructs the reference in the runtime identified by sctx.
	Restore(sctx SurrogateContext) (Ref, error)
}

// SurrogateContext is the runtime-side capability needed to restore
// surrogates. Runtime bindings implement it.
type SurrogateContext interface {
	// RefByPath returns a reference for path. The path is not required to
	// denote a live recipient; sending to a dead path stays a runtime
	// concern.
	RefByPath(path string) (Ref, error)
}
