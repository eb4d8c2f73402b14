package server

import (
	"fmt"
	"net/http"
	"time"

	"defikit/internal/comparator"
)

// CompareRequest asks how each coin would be priced at the other's market cap.
// UseATHA and UseATHB value A and B at their all-time-high caps when they are
// the target. A zero price is filled from the price book.
type CompareRequest struct {
	A         comparator.Coin `json:"a"`
	B         comparator.Coin `json:"b"`
	UseATHA   bool            `json:"use_ath_a"`
	UseATHB   bool            `json:"use_ath_b"`
	HoldingsA float64         `json:"holdings_a"`
	HoldingsB float64         `json:"holdings_b"`
}

// CompareRow is one direction of the comparison.
type CompareRow struct {
	comparator.Projection
	HoldingsValue float64 `json:"holdings_value"`
}

// CompareResponse holds both directions.
type CompareResponse struct {
	AVsB CompareRow `json:"a_vs_b"`
	BVsA CompareRow `json:"b_vs_a"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	req.A = s.withBookPrice(req.A)
	req.B = s.withBookPrice(req.B)

	start := time.Now()
	resp, err := compare(req)
	s.metrics.ObserveEvaluation("compare", statusOf(err), start)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func compare(req CompareRequest) (CompareResponse, error) {
	ab, err := comparator.Project(req.A, req.B, req.UseATHB)
	if err != nil {
		return CompareResponse{}, fmt.Errorf("a vs b: %w", err)
	}
	ba, err := comparator.Project(req.B, req.A, req.UseATHA)
	if err != nil {
		return CompareResponse{}, fmt.Errorf("b vs a: %w", err)
	}
	return CompareResponse{
		AVsB: CompareRow{Projection: ab, HoldingsValue: ab.HoldingsValue(req.HoldingsA)},
		BVsA: CompareRow{Projection: ba, HoldingsValue: ba.HoldingsValue(req.HoldingsB)},
	}, nil
}

func (s *Server) withBookPrice(c comparator.Coin) comparator.Coin {
	if c.Price > 0 || c.ID == "" || s.prices == nil {
		return c
	}
	if p, ok := s.prices.Price(c.ID); ok {
		c.Price = p
	}
	return c
}
