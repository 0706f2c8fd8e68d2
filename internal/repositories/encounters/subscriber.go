package encounters

import (
	"context"
	"log/slog"

	"github.com/fablekeeper/combat-engine/internal/combat"
	"github.com/fablekeeper/combat-engine/internal/entities"
)

// SnapshotWriter adapts a Repository into a combat listener: every state
// broadcast is persisted as the latest snapshot. Persistence failures are
// logged and swallowed; a subscriber must never disturb the engine.
type SnapshotWriter struct {
	repo Repository
}

// NewSnapshotWriter creates a snapshot writer backed by the given repository
func NewSnapshotWriter(repo Repository) *SnapshotWriter {
	return &SnapshotWriter{repo: repo}
}

// Listener returns the function to register with Service.Subscribe
func (w *SnapshotWriter) Listener(ctx context.Context) combat.Listener {
	return func(state *entities.CombatState) {
		if _, err := w.repo.SaveState(ctx, &SaveStateInput{State: state}); err != nil {
			slog.Error("Failed to persist combat snapshot", "error", err)
		}
	}
}
