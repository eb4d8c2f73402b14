package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"defikit/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createScenariosSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
	id UUID PRIMARY KEY,
	name VARCHAR(120) NOT NULL,
	kind VARCHAR(16) NOT NULL,
	inputs JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS scenarios_kind_idx ON scenarios (kind, updated_at DESC);`

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository stores scenarios in PostgreSQL.
type PostgresRepository struct {
	Pool *pgxpool.Pool
}

// NewPostgresRepository connects to dsn.
func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &PostgresRepository{Pool: pool}, nil
}

// Close releases the pool.
func (r *PostgresRepository) Close() {
	r.Pool.Close()
}

// Migrate creates the schema if needed.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.Pool.Exec(ctx, createScenariosSQL); err != nil {
		return fmt.Errorf("migrate scenarios: %w", err)
	}
	return nil
}

// SaveScenario inserts s, or updates it when s.ID already exists. A zero ID is
// replaced with a new one; timestamps are set on s.
func (r *PostgresRepository) SaveScenario(ctx context.Context, s *model.Scenario) error {
	if !s.Kind.Valid() {
		return fmt.Errorf("unknown scenario kind %q", s.Kind)
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()

	err := r.Pool.QueryRow(ctx, `
		INSERT INTO scenarios (id, name, kind, inputs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, kind = EXCLUDED.kind, inputs = EXCLUDED.inputs, updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at`,
		s.ID, s.Name, string(s.Kind), []byte(s.Inputs), now,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save scenario %s: %w", s.ID, err)
	}
	return nil
}

// GetScenario loads one scenario.
func (r *PostgresRepository) GetScenario(ctx context.Context, id uuid.UUID) (model.Scenario, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, name, kind, inputs, created_at, updated_at
		FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("get scenario %s: %w", id, err)
	}
	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Scenario])
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Scenario{}, ErrNotFound
	}
	if err != nil {
		return model.Scenario{}, fmt.Errorf("get scenario %s: %w", id, err)
	}
	return s, nil
}

// ListScenarios returns the scenarios of kind, most recently updated first. An
// empty kind lists all.
func (r *PostgresRepository) ListScenarios(ctx context.Context, kind model.ScenarioKind) ([]model.Scenario, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, name, kind, inputs, created_at, updated_at
		FROM scenarios
		WHERE $1::text = '' OR kind = $1::text
		ORDER BY updated_at DESC`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Scenario])
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return out, nil
}

// DeleteScenario removes a scenario.
func (r *PostgresRepository) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scenario %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
