// Package encounters provides snapshot persistence for combat state.
// The engine itself never persists anything; a host application wires a
// repository behind the engine's subscription mechanism.
package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=encountersmock github.com/fablekeeper/combat-engine/internal/repositories/encounters Repository

import (
	"context"
	"time"

	"github.com/fablekeeper/combat-engine/internal/entities"
)

// Snapshot wraps a persisted combat state with its save time
type Snapshot struct {
	State   *entities.CombatState `json:"state"`
	SavedAt time.Time             `json:"saved_at"`
}

// SaveStateInput defines the request for persisting a combat state snapshot
type SaveStateInput struct {
	State *entities.CombatState
}

// SaveStateOutput defines the response for persisting a snapshot
type SaveStateOutput struct {
	SavedAt time.Time
}

// LoadStateInput defines the request for loading the latest snapshot
type LoadStateInput struct{}

// LoadStateOutput carries the loaded snapshot
type LoadStateOutput struct {
	Snapshot *Snapshot
}

// DeleteStateInput defines the request for deleting the stored snapshot
type DeleteStateInput struct{}

// DeleteStateOutput defines the response for deleting the stored snapshot
type DeleteStateOutput struct{}

// Repository defines the storage interface for combat state snapshots
type Repository interface {
	// SaveState persists a snapshot, replacing any previous one
	SaveState(ctx context.Context, input *SaveStateInput) (*SaveStateOutput, error)

	// LoadState retrieves the latest snapshot; NotFound when none exists
	LoadState(ctx context.Context, input *LoadStateInput) (*LoadStateOutput, error)

	// DeleteState removes the stored snapshot; NotFound when none exists
	DeleteState(ctx context.Context, input *DeleteStateInput) (*DeleteStateOutput, error)
}
