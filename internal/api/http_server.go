package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"caravanshare/internal/config"
	"caravanshare/internal/domain"
	"caravanshare/internal/logging"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Services bundles everything the handlers call.
type Services struct {
	Users        domain.UserService
	Caravans     domain.CaravanService
	Reservations domain.ReservationService
	Payments     domain.PaymentService
	Reviews      domain.ReviewService

	// LookupLimiter throttles anonymous reservation lookups; nil disables throttling.
	LookupLimiter domain.LookupCache

	// Ready reports whether storage is reachable.
	Ready func(ctx context.Context) error
}

// HTTPServer exposes the REST API.
type HTTPServer struct {
	cfg      config.HTTPConfig
	services Services
	logger   *zerolog.Logger
	router   *mux.Router
	handler  http.Handler
	server   *http.Server
}

func NewHTTPServer(cfg config.HTTPConfig, services Services, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		services: services,
		logger:   logging.Component(logger, "http"),
	}
	srv.router = srv.routes()
	srv.handler = chain(srv.router,
		recoveryMiddleware(srv.logger),
		requestIDMiddleware,
		accessLogMiddleware(srv.logger),
		corsMiddleware(cfg.CORSOrigins),
		newRateLimiter(cfg.RateLimit).middleware(srv.logger),
	)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, s.logger, domain.NotFound("route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed", Kind: "method_not_allowed"})
	})
	// шаблон маршрута доступен только внутри роутера
	r.Use(metricsMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/users/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/users/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.handleUpdateUser).Methods(http.MethodPatch)

	api.HandleFunc("/caravans", s.handleListCaravans).Methods(http.MethodGet)
	api.HandleFunc("/caravans", s.handleCreateCaravan).Methods(http.MethodPost)
	api.HandleFunc("/caravans/host/{hostId}", s.handleListHostCaravans).Methods(http.MethodGet)
	api.HandleFunc("/caravans/{id}", s.handleGetCaravan).Methods(http.MethodGet)
	api.HandleFunc("/caravans/{id}", s.handleUpdateCaravan).Methods(http.MethodPut)
	api.HandleFunc("/caravans/{id}", s.handleDeleteCaravan).Methods(http.MethodDelete)
	api.HandleFunc("/caravans/{id}/quote", s.handleQuote).Methods(http.MethodGet)
	api.HandleFunc("/caravans/{id}/availability", s.handleAvailability).Methods(http.MethodGet)

	api.HandleFunc("/reservations", s.handleCreateReservation).Methods(http.MethodPost)
	api.HandleFunc("/reservations/lookup/{id}", s.handleLookupReservation).Methods(http.MethodGet)
	api.HandleFunc("/reservations/user/{userId}", s.handleListGuestReservations).Methods(http.MethodGet)
	api.HandleFunc("/reservations/host/{hostId}", s.handleListHostReservations).Methods(http.MethodGet)
	api.HandleFunc("/reservations/host/{hostId}/export", s.handleExportHostReservations).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}/status", s.handleUpdateReservationStatus).Methods(http.MethodPatch)

	api.HandleFunc("/payments", s.handleCreatePayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/user/{userId}", s.handleListPayments).Methods(http.MethodGet)

	api.HandleFunc("/reviews", s.handleCreateReview).Methods(http.MethodPost)
	api.HandleFunc("/reviews/caravan/{caravanId}", s.handleListReviews).Methods(http.MethodGet)

	return r
}

// Handler returns the root handler with all middleware applied.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// chain оборачивает h так, что первый middleware выполняется первым
func chain(h http.Handler, middlewares ...mux.MiddlewareFunc) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.services.Ready != nil {
		if err := s.services.Ready(r.Context()); err != nil {
			logging.FromContext(r.Context(), s.logger).Warn().Err(err).Msg("readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
