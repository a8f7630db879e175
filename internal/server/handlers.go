package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/models"
	"github.com/rewired-gh/tradeoracle/internal/montecarlo"
	"github.com/rewired-gh/tradeoracle/internal/options"
	"github.com/rewired-gh/tradeoracle/internal/strategy"
)

// Request limits for on-demand simulations.
const (
	maxSimulationPaths = 100000
	maxSimulationDays  = 1260
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC(),
		"message":   "401K Investment Dashboard API is running",
	})
}

// GET /api/strategy: the newest realistic analysis, or the approved dashboard plan.
func (s *Server) handleStrategy(w http.ResponseWriter, _ *http.Request) {
	if s.refreshReports() {
		if r, ok := s.store.Latest(models.KindRealistic); ok {
			writeJSON(w, http.StatusOK, r)
			return
		}
	}
	writeJSON(w, http.StatusOK, strategy.DefaultDashboard())
}

// GET /api/market-data: live closes when the provider answers, else the static snapshot.
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	now := s.now().UTC()
	if s.quotes == nil {
		writeJSON(w, http.StatusOK, strategy.StaticMarketSnapshot(now))
		return
	}

	quotes := s.quotes.Quotes(r.Context(), s.tickers)
	if len(quotes) == 0 {
		writeJSON(w, http.StatusOK, strategy.StaticMarketSnapshot(now))
		return
	}

	snap := strategy.MarketSnapshot{
		Quotes:     make(map[string]strategy.Quote, len(quotes)),
		Source:     "live",
		LastUpdate: now,
	}
	for _, q := range quotes {
		snap.Quotes[q.Ticker] = strategy.Quote{
			Price:         montecarlo.Round2(q.Price),
			ChangePercent: montecarlo.Round2(q.ChangePct),
		}
	}
	writeJSON(w, http.StatusOK, snap)
}

type riskRequest struct {
	TargetReturn   float64 `json:"target_return"`
	PortfolioValue float64 `json:"portfolio_value"`
	Timeframe      int     `json:"timeframe"`
}

func (s *Server) handleRiskAnalysis(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.PortfolioValue <= 0 {
		writeError(w, fmt.Errorf("%w: portfolio_value must be positive", options.ErrInvalidInput))
		return
	}
	writeJSON(w, http.StatusOK, options.AssessRisk(req.TargetReturn, req.PortfolioValue))
}

type sizingRequest struct {
	PortfolioValue float64                   `json:"portfolio_value"`
	Positions      []options.PositionRequest `json:"positions"`
}

func (s *Server) handlePositionSizing(w http.ResponseWriter, r *http.Request) {
	var req sizingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sizing, err := options.SizePositions(req.PortfolioValue, req.Positions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sizing)
}

// simulationRequest is shared by the JSON and query-string simulation endpoints.
// Unset fields fall back to the simulation config.
type simulationRequest struct {
	CurrentPrice float64  `json:"current_price" schema:"price"`
	TargetPrice  float64  `json:"target_price" schema:"target"`
	Volatility   *float64 `json:"volatility" schema:"volatility"`
	Days         int      `json:"days" schema:"days"`
	Paths        int      `json:"paths" schema:"paths"`
	Seed         *uint64  `json:"seed" schema:"seed"`
}

func (s *Server) simulate(req simulationRequest) (montecarlo.Record, error) {
	vol := s.sim.Volatility
	if req.Volatility != nil {
		vol = *req.Volatility
	}
	days := req.Days
	if days == 0 {
		days = s.sim.HorizonDays
	}
	paths := req.Paths
	if paths == 0 {
		paths = s.sim.Paths
	}
	if paths > maxSimulationPaths {
		return montecarlo.Record{}, fmt.Errorf("%w: paths must be at most %d", montecarlo.ErrInvalidParameter, maxSimulationPaths)
	}
	if days > maxSimulationDays {
		return montecarlo.Record{}, fmt.Errorf("%w: days must be at most %d", montecarlo.ErrInvalidParameter, maxSimulationDays)
	}

	p := montecarlo.NewParams(req.CurrentPrice, vol, days)
	p.PathCount = paths
	p.Drift = s.sim.Drift
	p.Workers = s.sim.Workers
	p.Seed = req.Seed
	if p.Seed == nil {
		p.Seed = s.sim.SeedPtr()
	}

	e, err := montecarlo.Simulate(p)
	if err != nil {
		return montecarlo.Record{}, err
	}
	rep, err := montecarlo.Summarize(e, req.TargetPrice)
	if err != nil {
		return montecarlo.Record{}, err
	}
	return rep.Record(), nil
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.simulate(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GET /api/simulate?price=&target=&volatility=&days=
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := s.decodeQuery(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.simulate(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type precedentsQuery struct {
	TargetReturn float64 `schema:"target_return"`
	AssetClass   string  `schema:"asset_class"`
}

func (s *Server) handlePrecedents(w http.ResponseWriter, r *http.Request) {
	q := precedentsQuery{TargetReturn: 10}
	if err := s.decodeQuery(r, &q); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, strategy.HistoricalPrecedents(q.TargetReturn, q.AssetClass))
}

func (s *Server) handleReports(w http.ResponseWriter, _ *http.Request) {
	reports := []*models.AnalysisReport{}
	if s.refreshReports() {
		reports = s.store.List()
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.refreshReports() {
		writeError(w, fmt.Errorf("%w: report %s", errNotFound, id))
		return
	}
	report, err := s.store.GetReport(id)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errNotFound, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// refreshReports picks up reports the analysis commands saved since the last
// request. It reports whether a store is configured at all.
func (s *Server) refreshReports() bool {
	if s.store == nil {
		return false
	}
	if reloaded, err := s.store.Refresh(); err != nil {
		logger.Warn("Failed to refresh reports, serving the previous snapshot: %v", err)
	} else if reloaded {
		logger.Debug("Reloaded reports from storage")
	}
	return true
}
