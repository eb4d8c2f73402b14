package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"defikit/internal/clmm"
	"defikit/internal/ptyt"
)

var errPricesDisabled = errors.New("price book is not configured")

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Scenarios bool      `json:"scenarios"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Scenarios: s.repo != nil,
	})
}

// evaluate runs the CLMM engine and records the outcome.
func (s *Server) evaluate(in clmm.Inputs) clmm.Envelope {
	start := time.Now()
	out := s.engine.Evaluate(in)
	s.metrics.ObserveEvaluation("clmm", string(out.Status()), start)
	return clmm.Wrap(out)
}

// handleCLMMEvaluate answers 200 for every outcome; the envelope's status
// tells waiting, error and success apart.
func (s *Server) handleCLMMEvaluate(w http.ResponseWriter, r *http.Request) {
	var in clmm.Inputs
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.evaluate(in))
}

func (s *Server) handlePTYTQuote(w http.ResponseWriter, r *http.Request) {
	var in ptyt.MarketInputs
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	q, err := ptyt.QuoteMarket(in, s.clock.Today())
	s.metrics.ObserveEvaluation("ptyt_quote", statusOf(err), start)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, q)
}

// ForecastRequest carries a market and the holder's assumptions in one body.
type ForecastRequest struct {
	Market   ptyt.MarketInputs   `json:"market"`
	Forecast ptyt.ForecastInputs `json:"forecast"`
}

func (s *Server) handlePTYTForecast(w http.ResponseWriter, r *http.Request) {
	var req ForecastRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	f, err := s.forecast(req)
	s.metrics.ObserveEvaluation("ptyt_forecast", statusOf(err), start)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, f)
}

func (s *Server) forecast(req ForecastRequest) (ptyt.Forecast, error) {
	q, err := ptyt.QuoteMarket(req.Market, s.clock.Today())
	if err != nil {
		return ptyt.Forecast{}, err
	}
	return ptyt.Project(q, req.Forecast, s.clock)
}

func statusOf(err error) string {
	if err != nil {
		return string(clmm.StatusError)
	}
	return string(clmm.StatusSuccess)
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	if s.prices == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errPricesDisabled)
		return
	}
	token := mux.Vars(r)["token"]
	tp, ok := s.prices.Get(token)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, errors.New("no price for "+token))
		return
	}
	s.writeJSON(w, r, http.StatusOK, tp)
}

type priceRequest struct {
	Price float64 `json:"price"`
}

func (s *Server) handlePutPrice(w http.ResponseWriter, r *http.Request) {
	if s.prices == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errPricesDisabled)
		return
	}
	var req priceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	token := mux.Vars(r)["token"]
	if err := s.prices.Set(r.Context(), token, req.Price); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	tp, _ := s.prices.Get(token)
	s.writeJSON(w, r, http.StatusOK, tp)
}
