package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const statsKey = "stats:snapshot"

var ErrStatsNotFound = errors.New("stats snapshot not found")

type StatsRepository interface {
	Save(ctx context.Context, stats entity.Stats, ttl time.Duration) error
	Get(ctx context.Context) (entity.Stats, error)
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

// Save stores the latest snapshot; it expires after ttl so a stalled reporter is noticed.
func (that *dbStats) Save(ctx context.Context, stats entity.Stats, ttl time.Duration) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("could not marshal stats: %w", err)
	}

	if err = that.client.Set(ctx, statsKey, statsJSON, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set stats: %w", err)
	}

	return nil
}

func (that *dbStats) Get(ctx context.Context) (entity.Stats, error) {
	response, err := that.client.Get(ctx, statsKey).Result()
	if errors.Is(err, redis.Nil) {
		return entity.Stats{}, ErrStatsNotFound
	}

	if err != nil {
		return entity.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats entity.Stats
	if err = json.Unmarshal([]byte(response), &stats); err != nil {
		return entity.Stats{}, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return stats, nil
}
