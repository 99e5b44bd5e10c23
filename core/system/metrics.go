package system

import "github.com/codewandler/tref-go/core/metrics"

// Metrics is the instrumentation hook of the runtime. Implementations
// must be safe for concurrent use. See adapters/prometheus.
type Metrics interface {
	// MessageDuration starts a timer covering one handler invocation.
	MessageDuration(msgType string) metrics.Timer
	// MessageProcessed counts a handled message; success is false when the
	// handler panicked.
	MessageProcessed(msgType string, success bool)
	// MessageDropped counts an undeliverable fire-and-forget send.
	MessageDropped(path string)
	// MailboxDepth reports the mailbox fill level after an enqueue.
	MailboxDepth(path string, depth int)
	// RequestCompleted counts a settled request by outcome: ok, timeout,
	// canceled, undeliverable, or error.
	RequestCompleted(outcome string)
	// ResolveCompleted counts a finished selection resolution.
	ResolveCompleted(success bool)
}

type nopMetrics struct{}

func (nopMetrics) MessageDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) MessageProcessed(string, bool)        {}
func (nopMetrics) MessageDropped(string)                {}
func (nopMetrics) MailboxDepth(string, int)             {}
func (nopMetrics) RequestCompleted(string)              {}
func (nopMetrics) ResolveCompleted(bool)                {}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }
