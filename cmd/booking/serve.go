package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking/booking_api"
	"ms-booking/internal/booking/db"
	"ms-booking/internal/booking/events"
	"ms-booking/internal/booking/qr"
	rediswrap "ms-booking/internal/booking/redis"
	booking "ms-booking/internal/booking/service"
	"ms-booking/internal/database"
	"ms-booking/internal/database/migrations"
	"ms-booking/internal/kafka"
	"ms-booking/internal/metrics"
	"ms-booking/internal/sse"
)

func newServeCmd(a *app) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the directory HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply pending schema migrations on startup")
	return cmd
}

func (a *app) serve(ctx context.Context, autoMigrate bool) error {
	cfg, log := a.cfg, a.log
	log.Info("APP", "Starting booking directory initialization")

	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer bunDB.Close()

	if autoMigrate {
		runner := migrations.NewRunner(bunDB, log)
		err := runner.Up()
		runner.Close()
		if err != nil {
			return err
		}
	}

	m := metrics.New()

	var pub booking.EventPublisher = events.LogPublisher{Logger: log}
	if cfg.Kafka.Enabled {
		log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers %v", cfg.Kafka.Brokers))
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()

		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, cfg.Kafka.Topics.All(), log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		pub = events.NewKafkaPublisher(producer, cfg.Kafka.Topics)
	} else {
		log.Info("KAFKA", "Kafka disabled, listing events go to the log")
	}
	feed := sse.NewListingEventEmitter()
	pub = events.Counted{Next: events.Fanout{pub, feed}, Recorder: m}

	svc, err := newService(db.New(bunDB), cfg, log, pub)
	if err != nil {
		return err
	}

	qrGen, err := qr.NewGenerator(cfg.Directory.PublicBaseURL, 0)
	if err != nil {
		return err
	}

	handler := booking_api.NewHandler(svc, qrGen, log)
	handler.Feed = feed

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("REDIS", fmt.Sprintf("Redis connection error, idempotency keys disabled: %v", err))
		} else {
			log.Info("REDIS", fmt.Sprintf("Redis connection successful to %s (DB: %d)", cfg.Redis.Addr, cfg.Redis.DB))
			handler.Idempotent = rediswrap.NewGuard(redisClient, cfg.Redis.IdempotencyTTL, log).Middleware
		}
	} else {
		log.Info("REDIS", "REDIS_ADDR not set, idempotency keys disabled")
	}

	if cfg.Auth.OIDCIssuer != "" {
		verifier, err := auth.NewVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.ClientID)
		if err != nil {
			return err
		}
		handler.Protect = auth.Middleware(verifier, log)
		log.Info("AUTH", "OIDC token check applied to mutating routes")
	} else {
		log.Warn("AUTH", "OIDC_ISSUER not set, mutating routes are open")
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      newRouter(cfg, log, m, handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP", fmt.Sprintf("Booking directory running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-stop:
	}

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
		return err
	}
	log.Info("HTTP", "Booking directory shutdown complete")
	return nil
}
