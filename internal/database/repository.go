package database

import (
	"context"
	"errors"

	"defikit/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a scenario does not exist.
var ErrNotFound = errors.New("scenario not found")

// Repository defines the standard interface for scenario storage.
type Repository interface {
	Migrate(ctx context.Context) error
	SaveScenario(ctx context.Context, s *model.Scenario) error
	GetScenario(ctx context.Context, id uuid.UUID) (model.Scenario, error)
	ListScenarios(ctx context.Context, kind model.ScenarioKind) ([]model.Scenario, error)
	DeleteScenario(ctx context.Context, id uuid.UUID) error
}
