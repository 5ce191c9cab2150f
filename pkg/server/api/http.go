// Package api exposes the aggregation engine over HTTP/JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/btcfi/oracle-aggregator/pkg/logging"
	"github.com/btcfi/oracle-aggregator/pkg/metrics"
	"github.com/btcfi/oracle-aggregator/pkg/pricing"
	"github.com/btcfi/oracle-aggregator/pkg/server/aggregator"
	"github.com/btcfi/oracle-aggregator/pkg/version"
)

// recentLimit caps the recent price list in aggregated price responses.
const recentLimit = 10

var validate = validator.New()

// Server represents the HTTP API server. The engine handle is passed in
// explicitly; nothing here is process-global.
type Server struct {
	addr   string
	engine *aggregator.Engine
	server *http.Server
	logger *logging.Logger
}

// NewServer creates a new HTTP API server around an engine.
func NewServer(addr string, engine *aggregator.Engine, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Server{
		addr:   addr,
		engine: engine,
		logger: logger,
	}
}

// Handler returns the routed handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/v1/prices", s.handleSubmitPrice).Methods(http.MethodPost)
	router.HandleFunc("/v1/prices/aggregated", s.handleAggregatedPrice).Methods(http.MethodGet)
	router.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)

	return cors.Default().Handler(router)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.logger.Info("Stopping HTTP server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleSubmitPrice handles POST /v1/prices.
func (s *Server) handleSubmitPrice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		metrics.RecordHTTPRequest("/v1/prices", status, time.Since(start))
	}()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = "400"
		metrics.RecordRejection("malformed_body")
		s.sendError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		status = "400"
		metrics.RecordRejection("missing_field")
		s.sendError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	// Price sanity is enforced here, before the engine sees the submission.
	if err := pricing.Validate(req.Price); err != nil {
		status = "400"
		metrics.RecordRejection("invalid_price")
		s.logger.Warn("Rejected price submission",
			"price", req.Price,
			"reporter", req.ReporterID,
			"error", err.Error())
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if flag := pricing.Plausibility(req.Price); flag != pricing.FlagNone {
		s.logger.Warn("Price outside sanity bounds",
			"price", req.Price,
			"reporter", req.ReporterID,
			"bound", flag.String())
		metrics.RecordImplausiblePrice(flag.String())
	}

	result := s.engine.Submit(aggregator.Submission{
		Price:      req.Price,
		ObservedAt: req.Timestamp,
		Source:     req.Source,
		ReporterID: req.ReporterID,
	})

	resp := submitResponse{
		Success:   true,
		Message:   "price received successfully",
		Timestamp: result.ComputedAt,
	}
	if result.Found {
		price := result.Price
		resp.AggregatedPrice = &price
	}
	s.sendJSON(w, resp)
}

// handleHealth handles GET /v1/health. The optional reporter_id query
// parameter identifies the probing node in logs.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RecordHTTPRequest("/v1/health", "200", time.Since(start))
	}()

	if id := r.URL.Query().Get("reporter_id"); id != "" {
		s.logger.Debug("Health check", "reporter", id)
	}

	snapshot := s.engine.Health()
	s.sendJSON(w, healthResponse{
		Healthy:             true,
		Timestamp:           time.Now().Unix(),
		ActiveReporterCount: snapshot.ActiveReporters,
		Version:             version.Version,
	})
}

// handleAggregatedPrice handles GET /v1/prices/aggregated.
func (s *Server) handleAggregatedPrice(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RecordHTTPRequest("/v1/prices/aggregated", "200", time.Since(start))
	}()

	result := s.engine.CurrentConsensus()
	recent := s.engine.Recent(recentLimit)

	points := make([]pricePoint, 0, len(recent))
	for _, sub := range recent {
		points = append(points, pricePoint{
			Price:      sub.Price,
			Timestamp:  sub.ObservedAt,
			Source:     sub.Source,
			ReporterID: sub.ReporterID,
		})
	}

	resp := aggregatedResponse{
		Success:        true,
		DataPointCount: len(points),
		LastUpdate:     result.ComputedAt,
		RecentPrices:   points,
	}
	if result.Found {
		resp.AggregatedPrice = result.Price
	}
	s.sendJSON(w, resp)
}

// validationMessage flattens the first field error into a client message.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("field %s failed rule %q", fe.Field(), fe.Tag())
	}
	return "invalid request"
}

// sendJSON sends a JSON response.
func (s *Server) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// sendError sends a JSON error response without mutating engine state.
func (s *Server) sendError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(errorResponse{Success: false, Message: message}); err != nil {
		s.logger.Error("Failed to encode JSON error", "error", err)
	}
}
