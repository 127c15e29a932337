package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alke-parking/internal/logging"
	"alke-parking/internal/parking"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
}

func NewServer(port string, lot *parking.InstrumentedParkingLot, serviceName string) *Server {
	handler := NewHandler(lot, serviceName)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handler, prometheus.NewRegistry()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
	}
}

// NewRouter registers the process collectors and HTTP metrics on reg and
// exposes them on /metrics.
func NewRouter(handler *Handler, reg *prometheus.Registry) http.Handler {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := newHTTPMetrics(reg)

	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(TracingMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/parking-lot", func(r chi.Router) {
		r.Post("/check-in", handler.CheckIn)
		r.Post("/check-out", handler.CheckOut)
		r.Get("/plates", handler.ListPlates)
		r.Get("/vehicles", handler.ListVehicles)
		r.Get("/vehicles/{plate}", handler.FindVehicle)
		r.Get("/statistics", handler.GetStatistics)
	})

	return r
}

func (s *Server) Start() error {
	logging.Logger().Info().Str("addr", s.httpServer.Addr).Msg("starting HTTP server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Logger().Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}
