package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics exposes counters/histograms for the webhook pipeline.
type GatewayMetrics struct {
	inboundTotal   *prometheus.CounterVec
	repliesTotal   *prometheus.CounterVec
	crmSyncTotal   *prometheus.CounterVec
	webhookLatency prometheus.Histogram
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whatsapp_gateway",
			Subsystem: "events",
			Name:      "inbound_total",
			Help:      "Total inbound webhook events by kind and outcome",
		}, []string{"kind", "outcome"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whatsapp_gateway",
			Subsystem: "events",
			Name:      "replies_total",
			Help:      "Total outbound replies by status",
		}, []string{"status"}),
		crmSyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whatsapp_gateway",
			Subsystem: "events",
			Name:      "crm_sync_total",
			Help:      "Total CRM sync attempts by status",
		}, []string{"status"}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "whatsapp_gateway",
			Subsystem: "events",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook acknowledgment",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.repliesTotal, m.crmSyncTotal, m.webhookLatency)
	return m
}

func (m *GatewayMetrics) ObserveInbound(kind, outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *GatewayMetrics) ObserveReply(status string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(status).Inc()
}

func (m *GatewayMetrics) ObserveSync(status string) {
	if m == nil {
		return
	}
	m.crmSyncTotal.WithLabelValues(status).Inc()
}

func (m *GatewayMetrics) ObserveWebhookLatency(seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.Observe(seconds)
}
