package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Notifier delivers engine messages to connected players.
type Notifier interface {
	Deliver(envelopes []Envelope)
}

type idleSweepTarget interface {
	SweepIdle(cutoff time.Time) []Envelope
}

// IdleSweeper periodically closes rooms nobody has touched for idleTimeout.
type IdleSweeper struct {
	logger *slog.Logger

	target   idleSweepTarget
	notifier Notifier

	idleTimeout time.Duration
	interval    time.Duration
	now         func() time.Time
}

func NewIdleSweeper(logger *slog.Logger, target idleSweepTarget, notifier Notifier, idleTimeout, interval time.Duration, now func() time.Time) *IdleSweeper {
	return &IdleSweeper{
		logger: logger.With("component", "idle_sweeper"),

		target:   target,
		notifier: notifier,

		idleTimeout: idleTimeout,
		interval:    interval,
		now:         now,
	}
}

// Run sweeps every interval until ctx is canceled.
func (that *IdleSweeper) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	log.Info("idle sweeper started", "interval", that.interval, "idle_timeout", that.idleTimeout)

	for {
		select {
		case <-ticker.C:
			that.Sweep()
		case <-ctx.Done():
			log.Info("idle sweeper stopped")
			return
		}
	}
}

// Sweep runs a single pass and returns the number of messages delivered.
func (that *IdleSweeper) Sweep() int {
	envelopes := that.target.SweepIdle(that.now().Add(-that.idleTimeout))
	if len(envelopes) == 0 {
		return 0
	}

	that.notifier.Deliver(envelopes)

	return len(envelopes)
}
