package server

import (
	"fmt"
	"net/http"
	"strconv"

	"defikit/internal/clmm"
	"defikit/internal/numeric"
)

// StepResponse is one nudge of a form value.
type StepResponse struct {
	Value  float64 `json:"value"`
	Step   float64 `json:"step"`
	Result float64 `json:"result"`
}

// handleStep nudges value one step. step defaults to the adaptive price step
// of value, dir is up or down, min defaults to 0.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value, err := queryFloat(q.Get("value"), 0, true)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("value: %w", err))
		return
	}
	step, err := queryFloat(q.Get("step"), 0, false)
	if err != nil || step < 0 {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("step must be a non-negative number"))
		return
	}
	floor, err := queryFloat(q.Get("min"), 0, false)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("min: %w", err))
		return
	}
	var up bool
	switch q.Get("dir") {
	case "up":
		up = true
	case "down":
	default:
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("dir must be up or down"))
		return
	}
	if step == 0 {
		step = numeric.PriceStep(value)
	}
	s.writeJSON(w, r, http.StatusOK, StepResponse{
		Value:  value,
		Step:   step,
		Result: numeric.Nudge(value, step, up, floor),
	})
}

// PresetRange is a quick range choice resolved against a price.
type PresetRange struct {
	Percent float64 `json:"percent"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
}

// PresetExit is a quick exit price choice resolved against a price.
type PresetExit struct {
	ChangePercent float64 `json:"change_percent"`
	Price         float64 `json:"price"`
}

// PresetsResponse lists the quick choices of the CLMM form. The resolved
// lists are only filled when a price is given.
type PresetsResponse struct {
	DefaultRangePercent float64       `json:"default_range_percent"`
	RangePercents       []float64     `json:"range_percents"`
	ExitPercents        []float64     `json:"exit_percents"`
	Price               float64       `json:"price,omitempty"`
	PriceStep           float64       `json:"price_step,omitempty"`
	Ranges              []PresetRange `json:"ranges,omitempty"`
	Exits               []PresetExit  `json:"exits,omitempty"`
}

func (s *Server) handleCLMMPresets(w http.ResponseWriter, r *http.Request) {
	price, err := queryFloat(r.URL.Query().Get("price"), 0, false)
	if err != nil || price < 0 {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("price must be a non-negative number"))
		return
	}

	resp := PresetsResponse{
		DefaultRangePercent: clmm.DefaultRangePercent,
		RangePercents:       clmm.RangePresets,
		ExitPercents:        clmm.ExitPresets,
	}
	if price > 0 {
		resp.Price = price
		resp.PriceStep = numeric.PriceStep(price)
		for _, pct := range append([]float64{clmm.DefaultRangePercent}, clmm.RangePresets...) {
			rng := clmm.RangeAround(price, pct)
			resp.Ranges = append(resp.Ranges, PresetRange{Percent: pct, Lower: rng.Lower, Upper: rng.Upper})
		}
		for _, pct := range clmm.ExitPresets {
			resp.Exits = append(resp.Exits, PresetExit{ChangePercent: pct, Price: clmm.ExitPriceAt(price, pct)})
		}
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

// queryFloat parses a finite float query value. An empty value yields def
// unless required.
func queryFloat(raw string, def float64, required bool) (float64, error) {
	if raw == "" {
		if required {
			return 0, fmt.Errorf("is required")
		}
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if numeric.Finite(v) != v {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}
