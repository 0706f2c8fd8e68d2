package encounters

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/fablekeeper/combat-engine/internal/errors"
	"github.com/fablekeeper/combat-engine/internal/pkg/clock"
	redisclient "github.com/fablekeeper/combat-engine/internal/redis"
)

const stateKey = "combat:state"

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for combat snapshots
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// SaveState persists a snapshot, replacing any previous one
func (r *redisRepository) SaveState(ctx context.Context, input *SaveStateInput) (*SaveStateOutput, error) {
	if input == nil || input.State == nil {
		return nil, errors.InvalidArgument("state cannot be nil")
	}

	snapshot := &Snapshot{
		State:   input.State,
		SavedAt: r.clock.Now(),
	}

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal snapshot")
	}

	// Snapshots are kept until explicitly deleted; no TTL
	if err := r.client.Set(ctx, stateKey, snapshotJSON, 0).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store snapshot in Redis")
	}

	return &SaveStateOutput{SavedAt: snapshot.SavedAt}, nil
}

// LoadState retrieves the latest snapshot
func (r *redisRepository) LoadState(ctx context.Context, input *LoadStateInput) (*LoadStateOutput, error) {
	snapshotJSON, err := r.client.Get(ctx, stateKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("no combat snapshot stored")
		}
		return nil, errors.Wrap(err, "failed to get snapshot from Redis")
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapshot")
	}

	return &LoadStateOutput{Snapshot: &snapshot}, nil
}

// DeleteState removes the stored snapshot
func (r *redisRepository) DeleteState(ctx context.Context, input *DeleteStateInput) (*DeleteStateOutput, error) {
	deleted, err := r.client.Del(ctx, stateKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete snapshot from Redis")
	}
	if deleted == 0 {
		return nil, errors.NotFound("no combat snapshot stored")
	}

	return &DeleteStateOutput{}, nil
}
