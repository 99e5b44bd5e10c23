// Package nats is the remote runtime binding: references and selections
// addressed over NATS subjects instead of an in-process mailbox table.
//
// Actor paths map to subjects by element, so the selection wildcard "*"
// translates directly to the NATS token wildcard:
//
//	/user/echo    -> tref.user.echo
//	/user/*       -> tref.user.*
//
// Message payloads travel as type-tagged JSON; both sides register their
// message types in a shared [codec.Registry]. Replies use NATS inboxes,
// and selections resolve by probing the pattern subject and taking the
// first responder.
package nats
