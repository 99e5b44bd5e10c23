package runtime

import "errors"

var (
	// Delivery errors
	ErrNoRecipient = errors.New("no recipient at path")
	ErrMailboxFull = errors.New("recipient mailbox full")

	// Request errors
	ErrTimeout = errors.New("request timeout")

	// Selection errors
	ErrNotUnique      = errors.New("selection matches more than one recipient")
	ErrResolveTimeout = errors.New("selection did not resolve to a unique reference")
)
