// Package oracle supplies token prices to the calculators.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"defikit/internal/model"
)

// PriceOracle returns the quote-currency price of a token. ok is false while
// the price is unavailable; callers must not substitute a price of their own.
type PriceOracle interface {
	Price(tokenID string) (price float64, ok bool)
}

// StaticOracle is an in-memory price book. Prices are set from configuration
// or by the API and read by the engines.
type StaticOracle struct {
	logger *slog.Logger
	mu     sync.RWMutex
	prices map[string]model.TokenPrice
}

// NewStaticOracle creates a price book seeded with prices.
func NewStaticOracle(logger *slog.Logger, prices map[string]float64) *StaticOracle {
	o := &StaticOracle{
		logger: logger,
		prices: make(map[string]model.TokenPrice, len(prices)),
	}
	for id, p := range prices {
		if err := o.Set(context.Background(), id, p); err != nil {
			logger.Warn("Skipping seed price", "token", id, "error", err)
		}
	}
	return o
}

// Price implements PriceOracle.
func (o *StaticOracle) Price(tokenID string) (float64, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	tp, ok := o.prices[normalize(tokenID)]
	if !ok || tp.Price <= 0 {
		return 0, false
	}
	return tp.Price, true
}

// Get returns the stored record for tokenID.
func (o *StaticOracle) Get(tokenID string) (model.TokenPrice, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	tp, ok := o.prices[normalize(tokenID)]
	return tp, ok
}

// Set stores a price. Non-positive prices are rejected.
func (o *StaticOracle) Set(ctx context.Context, tokenID string, price float64) error {
	id := normalize(tokenID)
	if id == "" {
		return fmt.Errorf("token id is required")
	}
	if !(price > 0) {
		return fmt.Errorf("price for %s must be positive, got %g", id, price)
	}
	o.mu.Lock()
	o.prices[id] = model.TokenPrice{TokenID: id, Price: price, UpdatedAt: time.Now().UTC()}
	o.mu.Unlock()
	o.logger.DebugContext(ctx, "Price updated", "token", id, "price", price)
	return nil
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
