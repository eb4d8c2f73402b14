// Package server exposes the calculators over HTTP and websocket.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"defikit/internal/clmm"
	"defikit/internal/config"
	"defikit/internal/database"
	"defikit/internal/metrics"
	"defikit/internal/oracle"
	"defikit/internal/ptyt"
)

type ctxKey int

const requestIDKey ctxKey = iota

// Deps are the collaborators the server routes requests to. Repo may be nil,
// in which case the scenario endpoints answer 503.
type Deps struct {
	Logger  *slog.Logger
	Prices  *oracle.StaticOracle
	Clock   ptyt.Clock
	Repo    database.Repository
	Metrics *metrics.Registry
}

// Server is the defikit HTTP API.
type Server struct {
	logger   *slog.Logger
	router   *mux.Router
	server   *http.Server
	engine   *clmm.Engine
	prices   *oracle.StaticOracle
	clock    ptyt.Clock
	repo     database.Repository
	metrics  *metrics.Registry
	upgrader websocket.Upgrader

	liveRate  rate.Limit
	liveBurst int
	started   time.Time
}

// New creates a server listening on cfg.Host:cfg.Port. Call Start to serve.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}
	if deps.Clock == nil {
		deps.Clock = ptyt.SystemClock{}
	}
	var prices oracle.PriceOracle
	if deps.Prices != nil {
		prices = deps.Prices
	}

	s := &Server{
		logger:  deps.Logger,
		router:  mux.NewRouter(),
		engine:  clmm.NewEngine(deps.Logger, prices),
		prices:  deps.Prices,
		clock:   deps.Clock,
		repo:    deps.Repo,
		metrics: deps.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		liveRate:  rate.Limit(cfg.LiveRatePerSec),
		liveBurst: cfg.LiveBurst,
		started:   time.Now(),
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/clmm/evaluate", s.handleCLMMEvaluate).Methods(http.MethodPost)
	api.HandleFunc("/clmm/live", s.handleCLMMLive).Methods(http.MethodGet)
	api.HandleFunc("/clmm/presets", s.handleCLMMPresets).Methods(http.MethodGet)
	api.HandleFunc("/numeric/step", s.handleStep).Methods(http.MethodGet)
	api.HandleFunc("/compare", s.handleCompare).Methods(http.MethodPost)
	api.HandleFunc("/ptyt/quote", s.handlePTYTQuote).Methods(http.MethodPost)
	api.HandleFunc("/ptyt/forecast", s.handlePTYTForecast).Methods(http.MethodPost)

	api.HandleFunc("/prices/{token}", s.handleGetPrice).Methods(http.MethodGet)
	api.HandleFunc("/prices/{token}", s.handlePutPrice).Methods(http.MethodPut)

	api.HandleFunc("/scenarios", s.handleCreateScenario).Methods(http.MethodPost)
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods(http.MethodGet)
	api.HandleFunc("/scenarios/{id}", s.handleGetScenario).Methods(http.MethodGet)
	api.HandleFunc("/scenarios/{id}", s.handleDeleteScenario).Methods(http.MethodDelete)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.logger.InfoContext(r.Context(), "Request handled",
			"request_id", r.Context().Value(requestIDKey),
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper records the status code. It forwards Hijack so websocket
// upgrades still work behind the logging middleware.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID any    `json:"request_id,omitempty"`
}

// writeJSON encodes v before any header is sent, so an encoding failure can
// still be reported as a 500.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Response encoding failed", "path", r.URL.Path, "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "response encoding failed", RequestID: r.Context().Value(requestIDKey)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.WarnContext(r.Context(), "Response write failed", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, r, status, errorResponse{Error: err.Error(), RequestID: r.Context().Value(requestIDKey)})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
