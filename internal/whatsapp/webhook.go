package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/conectifisio/whatsapp-gateway/internal/observability/metrics"
	"github.com/conectifisio/whatsapp-gateway/pkg/logging"
)

const ackBody = "EVENT_RECEIVED"

// defaultProcessTimeout bounds event processing detached from the ack.
const defaultProcessTimeout = 30 * time.Second

// WebhookHandler handles the Meta webhook verification handshake and
// inbound message delivery.
type WebhookHandler struct {
	verifyToken    string
	businessID     string
	onEvent        func(ctx context.Context, ev Event)
	logger         *logging.Logger
	metrics        *metrics.GatewayMetrics
	processTimeout time.Duration
}

// NewWebhookHandler creates a webhook handler. onEvent is invoked once per
// normalized event, detached from the HTTP acknowledgment.
func NewWebhookHandler(verifyToken, businessID string, onEvent func(context.Context, Event), logger *logging.Logger, m *metrics.GatewayMetrics) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken:    verifyToken,
		businessID:     businessID,
		onEvent:        onEvent,
		logger:         logger,
		metrics:        m,
		processTimeout: defaultProcessTimeout,
	}
}

// HandleVerification handles the GET webhook verification challenge.
// Meta matches the echoed challenge byte-for-byte.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleEvents handles POST event delivery. It always acknowledges with
// 200, whatever the body looks like: a non-200 response makes the platform
// redeliver indefinitely.
func (h *WebhookHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		body = nil
	}

	events := ParseEvents(body, h.businessID)

	// Ack before processing so sends and CRM syncs never delay it past
	// the platform's delivery timeout.
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ackBody)
	h.metrics.ObserveWebhookLatency(time.Since(start).Seconds())

	for _, ev := range events {
		go h.dispatch(ev)
	}
}

// dispatch runs the processing callback with its own deadline and converts
// panics into log records so a fault can never reach the HTTP layer.
func (h *WebhookHandler) dispatch(ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("event processing panicked",
				"message_id", ev.MessageID,
				"sender", ev.SenderID,
				"panic", rec,
			)
		}
	}()

	if h.onEvent == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.processTimeout)
	defer cancel()
	h.onEvent(ctx, ev)
}
