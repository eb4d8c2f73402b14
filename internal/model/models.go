package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TokenPrice is the latest known quote-currency price of a token.
type TokenPrice struct {
	TokenID   string    `json:"token_id"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScenarioKind says which calculator a scenario belongs to.
type ScenarioKind string

const (
	ScenarioCLMM ScenarioKind = "clmm"
	ScenarioPTYT ScenarioKind = "ptyt"
)

// Valid reports whether k is a known kind.
func (k ScenarioKind) Valid() bool {
	return k == ScenarioCLMM || k == ScenarioPTYT
}

// Scenario is a saved set of calculator inputs.
type Scenario struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Kind      ScenarioKind    `db:"kind" json:"kind"`
	Inputs    json.RawMessage `db:"inputs" json:"inputs"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
