// Package server exposes the dashboard HTTP API: strategy and market overviews,
// risk and position-sizing calculators, and on-demand Monte Carlo analysis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"

	"github.com/rewired-gh/tradeoracle/internal/analyzer"
	"github.com/rewired-gh/tradeoracle/internal/config"
	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/models"
	"github.com/rewired-gh/tradeoracle/internal/montecarlo"
	"github.com/rewired-gh/tradeoracle/internal/options"
)

const shutdownTimeout = 10 * time.Second

// errBadRequest marks malformed request bodies and query strings.
var errBadRequest = errors.New("bad request")

// errNotFound marks lookups of unknown resources.
var errNotFound = errors.New("not found")

// ReportStore is the read side of the report storage.
type ReportStore interface {
	Latest(kind models.ReportKind) (*models.AnalysisReport, bool)
	List() []*models.AnalysisReport
	GetReport(id string) (*models.AnalysisReport, error)
	// Refresh picks up snapshots written by other processes.
	Refresh() (bool, error)
}

// QuoteSource supplies the latest closes for the market overview.
type QuoteSource interface {
	Quotes(ctx context.Context, tickers []string) []analyzer.LatestQuote
}

// QuoteFunc adapts a function to QuoteSource.
type QuoteFunc func(ctx context.Context, tickers []string) []analyzer.LatestQuote

// Quotes calls f.
func (f QuoteFunc) Quotes(ctx context.Context, tickers []string) []analyzer.LatestQuote {
	return f(ctx, tickers)
}

// Server routes API requests. It holds no mutable state of its own.
type Server struct {
	router  *mux.Router
	decoder *schema.Decoder
	store   ReportStore
	quotes  QuoteSource
	tickers []string
	sim     config.SimulationConfig
	now     func() time.Time
}

// New builds the API. quotes may be nil, in which case the market overview is static.
func New(store ReportStore, quotes QuoteSource, tickers []string, sim config.SimulationConfig) *Server {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	s := &Server{
		router:  mux.NewRouter(),
		decoder: decoder,
		store:   store,
		quotes:  quotes,
		tickers: tickers,
		sim:     sim,
		now:     time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(logRequests, allowCORS)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/strategy", s.handleStrategy).Methods(http.MethodGet)
	api.HandleFunc("/market-data", s.handleMarketData).Methods(http.MethodGet)
	api.HandleFunc("/risk-analysis", s.handleRiskAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/position-sizing", s.handlePositionSizing).Methods(http.MethodPost)
	api.HandleFunc("/monte-carlo", s.handleMonteCarlo).Methods(http.MethodPost)
	api.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodGet)
	api.HandleFunc("/historical-precedents", s.handlePrecedents).Methods(http.MethodGet)
	api.HandleFunc("/reports", s.handleReports).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", s.handleReport).Methods(http.MethodGet)
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	logger.Info("API server stopped")
	return nil
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, montecarlo.ErrInvalidParameter),
		errors.Is(err, options.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) decodeQuery(r *http.Request, v any) error {
	if err := s.decoder.Decode(v, r.URL.Query()); err != nil {
		return fmt.Errorf("%w: invalid query: %v", errBadRequest, err)
	}
	return nil
}
