// Package http exposes the operational endpoints of the recovery service.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func NewRouter(tracked Tracker, ticks TickTrigger, now func() time.Time, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := NewHandler(tracked, ticks, now, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(log))

	r.Get("/health", h.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/inactivity/{userID}", h.GetInactivity)
		r.Post("/ticks", h.TriggerTick)
	})

	return otelhttp.NewHandler(r, "ops")
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
