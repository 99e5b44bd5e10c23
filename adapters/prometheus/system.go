package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/tref-go/core/metrics"
	"github.com/codewandler/tref-go/core/system"
)

// systemMetrics implements system.Metrics using Prometheus.
type systemMetrics struct {
	messageDuration  *prometheus.HistogramVec
	messagesTotal    *prometheus.CounterVec
	messagesDropped  *prometheus.CounterVec
	mailboxDepth     *prometheus.GaugeVec
	requestsTotal    *prometheus.CounterVec
	resolutionsTotal *prometheus.CounterVec
}

// NewSystemMetrics creates a Prometheus implementation of system.Metrics.
func NewSystemMetrics(reg prometheus.Registerer) system.Metrics {
	m := &systemMetrics{
		messageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tref_runtime_message_duration_seconds",
			Help:    "Message handling time in seconds",
			Buckets: defaultBuckets,
		}, []string{"message_type"}),

		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tref_runtime_messages_total",
			Help: "Total number of messages processed",
		}, []string{"message_type", "success"}),

		messagesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tref_runtime_messages_dropped_total",
			Help: "Total number of undeliverable fire-and-forget messages",
		}, []string{"path"}),

		mailboxDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tref_runtime_mailbox_depth",
			Help: "Current mailbox queue depth",
		}, []string{"path"}),

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tref_runtime_requests_total",
			Help: "Total number of settled requests",
		}, []string{"outcome"}),

		resolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tref_runtime_resolutions_total",
			Help: "Total number of finished selection resolutions",
		}, []string{"success"}),
	}

	reg.MustRegister(
		m.messageDuration,
		m.messagesTotal,
		m.messagesDropped,
		m.mailboxDepth,
		m.requestsTotal,
		m.resolutionsTotal,
	)

	return m
}

func (m *systemMetrics) MessageDuration(msgType string) metrics.Timer {
	return newTimer(m.messageDuration.WithLabelValues(msgType))
}

func (m *systemMetrics) MessageProcessed(msgType string, success bool) {
	m.messagesTotal.WithLabelValues(msgType, boolToStr(success)).Inc()
}

func (m *systemMetrics) MessageDropped(path string) {
	m.messagesDropped.WithLabelValues(path).Inc()
}

func (m *systemMetrics) MailboxDepth(path string, depth int) {
	m.mailboxDepth.WithLabelValues(path).Set(float64(depth))
}

func (m *systemMetrics) RequestCompleted(outcome string) {
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

func (m *systemMetrics) ResolveCompleted(success bool) {
	m.resolutionsTotal.WithLabelValues(boolToStr(success)).Inc()
}

var _ system.Metrics = (*systemMetrics)(nil)
