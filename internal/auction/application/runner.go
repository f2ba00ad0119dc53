package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/domain"
	"go.uber.org/zap"
)

// DefinitionSource provides the auction calendar. The postgres auction
// repository implements it; tests use an in-memory slice.
type DefinitionSource interface {
	ListDefinitions(ctx context.Context) ([]domain.AuctionDefinition, error)
}

// Runner is the tick-driven driver: once per interval it samples the
// clock, resolves the schedule, completes the active auction exactly once
// when its end time passes, and instantiates a fresh ledger when the
// schedule's active auction changes.
type Runner struct {
	source   DefinitionSource
	registry *Registry
	cfg      domain.StateConfig
	interval time.Duration
	now      func() time.Time

	// lastCompleted guards at-most-once completion per auction: the tick
	// is polling, so the same end can be observed many times.
	lastCompleted uuid.UUID

	// OnOutcome, when set, is invoked after each completion (e.g. to
	// broadcast the winner).
	OnOutcome func(domain.Outcome)
}

func NewRunner(source DefinitionSource, registry *Registry, cfg domain.StateConfig, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		source:   source,
		registry: registry,
		cfg:      cfg,
		interval: interval,
		now:      now,
	}
}

// Run ticks until the context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	log.Info("auction runner started", zap.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("auction runner stopped")
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick performs one scheduling step. Exported so tests can drive the
// runner with a fake clock instead of waiting on the ticker.
func (r *Runner) Tick(ctx context.Context) {
	defs, err := r.source.ListDefinitions(ctx)
	if err != nil {
		log.Error("runner: failed to load auction definitions", zap.Error(err))
		return
	}
	now := r.now()
	sched := domain.Resolve(defs, now)

	// Completion first: the active ledger may have run past its end even
	// if the resolver already promotes the next auction.
	if current, ok := r.registry.Active(); ok {
		def := current.Definition()
		if !now.Before(def.EndTime) && r.lastCompleted != def.ID {
			out := current.Complete()
			r.lastCompleted = def.ID
			r.registry.Clear()
			log.Info("runner: auction completed",
				zap.String("auctionID", def.ID.String()),
				zap.String("finalBid", out.FinalBid.String()),
			)
			if r.OnOutcome != nil {
				r.OnOutcome(out)
			}
		}
	}

	if sched.Active == nil {
		return
	}
	if current, ok := r.registry.Active(); ok && current.Definition().ID == sched.Active.ID {
		return
	}
	if r.lastCompleted == sched.Active.ID {
		// already completed this window, do not resurrect it
		return
	}
	log.Info("runner: activating auction",
		zap.String("auctionID", sched.Active.ID.String()),
		zap.String("title", sched.Active.Title),
		zap.Time("endTime", sched.Active.EndTime),
	)
	r.registry.Activate(domain.NewAuctionState(*sched.Active, r.cfg))
}
