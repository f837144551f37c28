package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/config"
	"github.com/Josmarcito/sistema-durtron/internal/infra"
	"github.com/Josmarcito/sistema-durtron/internal/middleware"
	"github.com/Josmarcito/sistema-durtron/internal/repository"
	"github.com/Josmarcito/sistema-durtron/internal/router"
	"github.com/Josmarcito/sistema-durtron/internal/service"
	"github.com/Josmarcito/sistema-durtron/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Outbound messaging: each sender sits behind its own circuit breaker.
	mailer := infra.NewMailer(cfg)
	whatsapp := infra.NewWhatsAppClient(cfg.WhatsAppGatewayURL, cfg.WhatsAppGatewayToken)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	whatsappCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("whatsapp"))
	if !mailer.Configured() {
		log.Warn().Msg("SMTP_HOST not set, email jobs will fail into the DLQ")
	}
	if !whatsapp.Configured() {
		log.Warn().Msg("WHATSAPP_GATEWAY_URL not set, only wa.me links are available")
	}

	dispatcher := worker.NewDispatcher(rdb)
	workers := worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.Handler{
		worker.QueueEmail:    worker.NewEmailWorker(mailer, smtpCB),
		worker.QueueWhatsApp: worker.NewWhatsAppWorker(whatsapp, whatsappCB),
	})

	worker.StartConciliacionCron(ctx, worker.ConciliacionCronConfig{
		Conciliador: service.NewConciliacionService(repository.NewVentaRepository(db)),
		Interval:    time.Duration(cfg.ConciliacionMinutos) * time.Minute,
	})

	svcs := router.NewServices(cfg, db, rdb, dispatcher)
	r := router.New(ctx, cfg, svcs, router.Infra{
		DB:       db,
		Redis:    rdb,
		Metrics:  middleware.NewMetrics(),
		Breakers: []*infra.CircuitBreaker{smtpCB, whatsappCB},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Durtron backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	workers.Wait()
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}
