package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
)

type StatsService interface {
	// Report stores the current live counters.
	Report(ctx context.Context) error
	// Snapshot returns the last stored counters, or live ones when none are stored.
	Snapshot(ctx context.Context) (entity.Stats, error)
	// Run reports every interval until ctx is canceled.
	Run(ctx context.Context)
}

type statsRepo interface {
	Save(ctx context.Context, stats entity.Stats, ttl time.Duration) error
	Get(ctx context.Context) (entity.Stats, error)
}

type statsSource interface {
	Stats() entity.Stats
}

type statsService struct {
	logger *slog.Logger

	statsRepo statsRepo
	source    statsSource

	interval time.Duration
	ttl      time.Duration
}

func NewStatsService(logger *slog.Logger, statsRepo statsRepo, source statsSource, interval, ttl time.Duration) StatsService {
	return &statsService{
		logger: logger.With("component", "stats_service"),

		statsRepo: statsRepo,
		source:    source,

		interval: interval,
		ttl:      ttl,
	}
}

func (that *statsService) Report(ctx context.Context) error {
	if err := that.statsRepo.Save(ctx, that.source.Stats(), that.ttl); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	return nil
}

func (that *statsService) Snapshot(ctx context.Context) (entity.Stats, error) {
	stats, err := that.statsRepo.Get(ctx)
	if errors.Is(err, repository.ErrStatsNotFound) {
		return that.source.Stats(), nil
	}

	if err != nil {
		return entity.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func (that *statsService) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := that.Report(ctx); err != nil {
				log.Error("could not report stats", "error", err)
			}
		case <-ctx.Done():
			log.Info("stats reporter stopped")
			return
		}
	}
}
