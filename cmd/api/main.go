package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/conectifisio/whatsapp-gateway/internal/api/router"
	"github.com/conectifisio/whatsapp-gateway/internal/bot"
	appconfig "github.com/conectifisio/whatsapp-gateway/internal/config"
	"github.com/conectifisio/whatsapp-gateway/internal/crm"
	"github.com/conectifisio/whatsapp-gateway/internal/dedup"
	"github.com/conectifisio/whatsapp-gateway/internal/observability/metrics"
	"github.com/conectifisio/whatsapp-gateway/internal/session"
	"github.com/conectifisio/whatsapp-gateway/internal/whatsapp"
	"github.com/conectifisio/whatsapp-gateway/pkg/logging"
)

func main() {
	// Load local .env when present; real deployments set the environment.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting whatsapp-gateway",
		"env", cfg.Env,
		"port", cfg.Port,
		"graph_api_version", cfg.GraphAPIVersion,
	)

	gatewayMetrics := metrics.NewGatewayMetrics(nil)

	// Single-instance mode keeps dedup and sessions in process memory;
	// REDIS_ADDR switches both to the shared store.
	var (
		deduper  dedup.Deduplicator
		sessions session.Store
	)
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		deduper = dedup.NewRedis(redisClient, cfg.DedupTTL, logger)
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
		logger.Info("using redis-backed stores", "addr", cfg.RedisAddr)
	} else {
		deduper = dedup.NewMemory(cfg.DedupTTL, cfg.DedupMaxEntries)
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		logger.Info("using in-memory stores")
	}

	sender, err := whatsapp.NewClient(whatsapp.ClientConfig{
		AccessToken:   cfg.WhatsAppToken,
		PhoneNumberID: cfg.PhoneNumberID,
		BaseURL:       cfg.GraphAPIBase,
		Version:       cfg.GraphAPIVersion,
		Timeout:       cfg.SendTimeout,
		MaxRetries:    cfg.SendMaxRetries,
		Backoff:       cfg.SendRetryBackoff,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to build whatsapp client", "error", err)
		os.Exit(1)
	}

	var crmClient crm.Syncer
	if cfg.CRMWebhookURL != "" {
		client, err := crm.NewClient(cfg.CRMWebhookURL, cfg.CRMTimeout)
		if err != nil {
			logger.Error("failed to build crm client", "error", err)
			os.Exit(1)
		}
		crmClient = client
	} else {
		logger.Warn("CRM_WEBHOOK_URL not set, lead sync disabled")
	}

	engine := bot.New(bot.Config{
		Sessions:    sessions,
		Dedup:       deduper,
		Sender:      sender,
		CRM:         crmClient,
		Metrics:     gatewayMetrics,
		Logger:      logger,
		SendTimeout: cfg.SendTimeout,
		SyncTimeout: cfg.CRMTimeout,
	})

	webhook := whatsapp.NewWebhookHandler(cfg.VerifyToken, cfg.PhoneNumberID, engine.Process, logger, gatewayMetrics)

	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        webhook,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
