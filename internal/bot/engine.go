// Package bot routes normalized webhook events through the menu state
// machine and fans the outcome out to the messaging provider and the CRM.
package bot

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/conectifisio/whatsapp-gateway/internal/crm"
	"github.com/conectifisio/whatsapp-gateway/internal/dedup"
	"github.com/conectifisio/whatsapp-gateway/internal/extract"
	"github.com/conectifisio/whatsapp-gateway/internal/observability/metrics"
	"github.com/conectifisio/whatsapp-gateway/internal/session"
	"github.com/conectifisio/whatsapp-gateway/internal/whatsapp"
	"github.com/conectifisio/whatsapp-gateway/pkg/logging"
)

// lockStripes bounds the per-sender serialization table.
const lockStripes = 64

// Sender dispatches one outbound text reply.
type Sender interface {
	SendText(ctx context.Context, to, body string) (*whatsapp.SendResponse, error)
}

// Config wires the engine's collaborators.
type Config struct {
	Sessions session.Store
	Dedup    dedup.Deduplicator
	Sender   Sender
	CRM      crm.Syncer
	Metrics  *metrics.GatewayMetrics
	Logger   *logging.Logger
	// SendTimeout bounds one reply dispatch; SyncTimeout bounds one CRM
	// sync. Zero values get defaults.
	SendTimeout time.Duration
	SyncTimeout time.Duration
}

// Engine owns the conversation state: it is the only writer of sessions.
type Engine struct {
	sessions    session.Store
	dedup       dedup.Deduplicator
	sender      Sender
	crm         crm.Syncer
	metrics     *metrics.GatewayMetrics
	logger      *logging.Logger
	tracer      trace.Tracer
	sendTimeout time.Duration
	syncTimeout time.Duration
	locks       [lockStripes]sync.Mutex
}

// New creates an engine. Sessions, Dedup and Sender are required; CRM and
// Metrics may be nil.
func New(cfg Config) *Engine {
	if cfg.Sessions == nil {
		panic("bot: session store is required")
	}
	if cfg.Dedup == nil {
		panic("bot: deduplicator is required")
	}
	if cfg.Sender == nil {
		panic("bot: sender is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	syncTimeout := cfg.SyncTimeout
	if syncTimeout <= 0 {
		syncTimeout = 15 * time.Second
	}
	return &Engine{
		sessions:    cfg.Sessions,
		dedup:       cfg.Dedup,
		sender:      cfg.Sender,
		crm:         cfg.CRM,
		metrics:     cfg.Metrics,
		logger:      logger,
		tracer:      otel.Tracer("conectifisio.bot.engine"),
		sendTimeout: sendTimeout,
		syncTimeout: syncTimeout,
	}
}

// Process handles one inbound event end to end: dedup gate, state
// transition, lead capture, then reply dispatch and CRM sync in parallel.
// It never returns an error; downstream failures are logged and swallowed
// so they cannot reach the webhook acknowledgment.
func (e *Engine) Process(ctx context.Context, ev whatsapp.Event) {
	ctx, span := e.tracer.Start(ctx, "bot.process")
	defer span.End()

	corrID := ev.MessageID
	if corrID == "" {
		corrID = uuid.NewString()
	}
	log := e.logger.With("event_id", corrID, "sender", ev.SenderID, "kind", string(ev.Kind))

	if !e.dedup.ShouldProcess(ctx, ev.MessageID) {
		e.metrics.ObserveInbound(string(ev.Kind), "duplicate")
		log.Debug("duplicate delivery dropped")
		return
	}

	reply, lead := e.transition(ctx, ev, log)
	e.metrics.ObserveInbound(string(ev.Kind), "processed")

	var wg sync.WaitGroup
	if reply != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.sendReply(ev.SenderID, reply, log)
		}()
	}
	if lead != nil && e.crm != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.syncLead(*lead, log)
		}()
	}
	wg.Wait()
}

// transition runs the serialized read-modify-write of the sender's
// session and decides the reply and lead. The session write happens
// before any send is scheduled, so a concurrent duplicate observes the
// updated state.
func (e *Engine) transition(ctx context.Context, ev whatsapp.Event, log *logging.Logger) (string, *crm.Lead) {
	lock := e.lockFor(ev.SenderID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := e.sessions.Get(ctx, ev.SenderID)
	if err != nil {
		log.Warn("session load failed, starting fresh", "error", err)
		sess = session.Session{Mode: session.ModeIdle}
	}

	if !ev.HasText() {
		// Media and unsupported kinds get the fixed notice and leave the
		// conversation state untouched.
		return textOnlyReply, nil
	}

	wasAwaitingHandoff := sess.Mode == session.ModeAwaitingHandoff

	reply, next := route(sess, ev.Text)

	fields := extract.FromText(ev.Text)
	unit := crm.UnitForTarget(ev.TargetID)

	next.Registered = sess.Registered || fields.CPF != ""

	status := crm.StatusIntake
	if next.Registered {
		status = crm.StatusRegistered
	}
	if fields.CPF != "" {
		reply = cpfRegisteredReply(fields.CPF, unit)
	}

	lead := &crm.Lead{
		From:   ev.SenderID,
		Text:   ev.Text,
		Unit:   unit,
		Status: status,
		CPF:    fields.CPF,
		Email:  fields.Email,
	}
	if wasAwaitingHandoff {
		// The handoff prompt asked for name and need; keep what the
		// sender wrote for the team.
		lead.Name = ev.Text
	}

	if err := e.sessions.Put(ctx, ev.SenderID, next); err != nil {
		log.Warn("session write failed", "error", err)
	}

	return reply, lead
}

func (e *Engine) sendReply(to, body string, log *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), e.sendTimeout)
	defer cancel()

	if _, err := e.sender.SendText(ctx, to, body); err != nil {
		e.metrics.ObserveReply("error")
		log.Error("reply dispatch failed", "error", err)
		return
	}
	e.metrics.ObserveReply("ok")
}

func (e *Engine) syncLead(lead crm.Lead, log *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), e.syncTimeout)
	defer cancel()

	if err := e.crm.Sync(ctx, lead); err != nil {
		e.metrics.ObserveSync("error")
		log.Warn("crm sync failed", "unit", lead.Unit, "status", string(lead.Status), "error", err)
		return
	}
	e.metrics.ObserveSync("ok")
}

func (e *Engine) lockFor(senderID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(senderID))
	return &e.locks[h.Sum32()%lockStripes]
}
