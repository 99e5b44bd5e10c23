// Package runtime defines the contracts a message-addressing runtime must
// satisfy for the typed facade in core/typed to wrap it.
//
// The facade never implements delivery itself: addressing, mailbox
// enqueueing, request/response correlation, selection resolution and
// surrogate marshalling all belong to a runtime binding. This repository
// ships two bindings — an in-process one (core/system) and a NATS-backed
// one (adapters/nats) — but any implementation of [Ref], [Selection],
// [Factory] and [SurrogateContext] works.
package runtime
