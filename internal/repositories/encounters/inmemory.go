package encounters

import (
	"context"
	"sync"

	"github.com/fablekeeper/combat-engine/internal/errors"
	"github.com/fablekeeper/combat-engine/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	clock clock.Clock

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewInMemory creates a new in-memory repository
func NewInMemory(clk clock.Clock) *InMemoryRepository {
	return &InMemoryRepository{clock: clk}
}

// SaveState persists a snapshot, replacing any previous one
func (r *InMemoryRepository) SaveState(ctx context.Context, input *SaveStateInput) (*SaveStateOutput, error) {
	if input == nil || input.State == nil {
		return nil, errors.InvalidArgument("state cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = &Snapshot{
		State:   input.State.DeepCopy(),
		SavedAt: r.clock.Now(),
	}

	return &SaveStateOutput{SavedAt: r.snapshot.SavedAt}, nil
}

// LoadState retrieves the latest snapshot
func (r *InMemoryRepository) LoadState(ctx context.Context, input *LoadStateInput) (*LoadStateOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil, errors.NotFound("no combat snapshot stored")
	}

	// Return a copy to prevent external modification
	return &LoadStateOutput{
		Snapshot: &Snapshot{
			State:   r.snapshot.State.DeepCopy(),
			SavedAt: r.snapshot.SavedAt,
		},
	}, nil
}

// DeleteState removes the stored snapshot
func (r *InMemoryRepository) DeleteState(ctx context.Context, input *DeleteStateInput) (*DeleteStateOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot == nil {
		return nil, errors.NotFound("no combat snapshot stored")
	}

	r.snapshot = nil

	return &DeleteStateOutput{}, nil
}
