package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ms-booking/internal/booking/booking_api"
	"ms-booking/internal/booking/schedule"
	booking "ms-booking/internal/booking/service"
	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/metrics"
)

func newService(store booking.DBLayer, cfg *config.Config, log *logger.Logger, pub booking.EventPublisher) (*booking.BookingService, error) {
	loc, err := cfg.Directory.Location()
	if err != nil {
		return nil, err
	}
	policy, err := schedule.ParsePolicy(cfg.Directory.BoundaryPolicy)
	if err != nil {
		return nil, err
	}
	log.Info("CONFIG", fmt.Sprintf("Directory timezone %s, show boundary policy %s", loc, policy))

	return booking.NewBookingService(store, booking.Options{
		Location: loc,
		Policy:   policy,
		Events:   pub,
		Logger:   log,
	}), nil
}

func newRouter(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, h *booking_api.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Idempotent-Replayed"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(log.Middleware)
	r.Use(m.Middleware)

	r.Method(http.MethodGet, "/metrics", m.Handler())
	h.RegisterRoutes(r)
	log.Info("ROUTER", "Directory routes registered under /venues, /artists and /shows")

	return r
}
