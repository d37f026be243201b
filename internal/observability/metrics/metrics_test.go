package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGatewayMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)

	m.ObserveInbound("text", "processed")
	m.ObserveInbound("text", "processed")
	m.ObserveInbound("text", "duplicate")
	m.ObserveReply("ok")
	m.ObserveSync("error")
	m.ObserveWebhookLatency(0.01)

	if got := testutil.ToFloat64(m.inboundTotal.WithLabelValues("text", "processed")); got != 2 {
		t.Fatalf("expected 2 processed, got %v", got)
	}
	if got := testutil.ToFloat64(m.inboundTotal.WithLabelValues("text", "duplicate")); got != 1 {
		t.Fatalf("expected 1 duplicate, got %v", got)
	}
	if got := testutil.ToFloat64(m.repliesTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 reply, got %v", got)
	}
	if got := testutil.ToFloat64(m.crmSyncTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 sync error, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *GatewayMetrics
	m.ObserveInbound("text", "processed")
	m.ObserveReply("ok")
	m.ObserveSync("ok")
	m.ObserveWebhookLatency(0)
}
