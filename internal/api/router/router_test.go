package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"

	"github.com/conectifisio/whatsapp-gateway/internal/whatsapp"
)

func newTestRouter() http.Handler {
	webhook := whatsapp.NewWebhookHandler("verify-token", "109876543210000", nil, nil, nil)
	reg := prometheus.NewRegistry()
	return New(&Config{
		Webhook:        webhook,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestWebhookRoutes(t *testing.T) {
	r := newTestRouter()

	t.Run("GET handshake", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/api/whatsapp?hub.mode=subscribe&hub.verify_token=verify-token&hub.challenge=abc123", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc123", w.Body.String())
	})

	t.Run("POST delivery acks", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/whatsapp", strings.NewReader("{}"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unsupported method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/whatsapp", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
