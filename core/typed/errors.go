package typed

import "errors"

var (
	// ErrUnexpectedReply marks a reply whose runtime type does not match
	// the response type declared at the Ask call site. Failures originating
	// in the runtime pass through Ask unchanged; this error is the only one
	// the typed layer adds.
	ErrUnexpectedReply = errors.New("reply type mismatch")
)
