package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	defs []domain.AuctionDefinition
}

func (s *stubSource) ListDefinitions(ctx context.Context) ([]domain.AuctionDefinition, error) {
	return s.defs, nil
}

// fakeClock is a manually advanced clock shared by runner and ledgers.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func runnerFixture() (*Runner, *Registry, *fakeClock, []domain.AuctionDefinition) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	a := domain.AuctionDefinition{
		ID:          uuid.New(),
		Title:       "A",
		StartTime:   base,
		EndTime:     base.Add(time.Hour),
		LaunchPrice: decimal.RequireFromString("1.10"),
	}
	b := domain.AuctionDefinition{
		ID:          uuid.New(),
		Title:       "B",
		StartTime:   base.Add(90 * time.Minute),
		EndTime:     base.Add(2 * time.Hour),
		LaunchPrice: decimal.RequireFromString("0.50"),
	}

	clock := &fakeClock{t: base.Add(-time.Minute)}
	registry := NewRegistry()
	runner := NewRunner(
		&stubSource{defs: []domain.AuctionDefinition{a, b}},
		registry,
		domain.StateConfig{Now: clock.Now, SettleDelay: time.Millisecond},
		time.Second,
	)
	return runner, registry, clock, []domain.AuctionDefinition{a, b}
}

func TestRunner_ActivatesWhenWindowOpens(t *testing.T) {
	runner, registry, clock, defs := runnerFixture()
	ctx := context.Background()

	runner.Tick(ctx)
	_, ok := registry.Active()
	require.False(t, ok, "nothing is active before the window opens")

	clock.Set(defs[0].StartTime.Add(time.Second))
	runner.Tick(ctx)

	st, ok := registry.Active()
	require.True(t, ok)
	require.Equal(t, defs[0].ID, st.Definition().ID)

	// a later tick inside the same window keeps the same ledger
	clock.Set(defs[0].StartTime.Add(time.Minute))
	runner.Tick(ctx)
	st2, _ := registry.Active()
	require.Same(t, st, st2)
}

func TestRunner_CompletesAtMostOnce(t *testing.T) {
	runner, registry, clock, defs := runnerFixture()
	ctx := context.Background()

	var outcomes []domain.Outcome
	runner.OnOutcome = func(out domain.Outcome) { outcomes = append(outcomes, out) }

	clock.Set(defs[0].StartTime.Add(time.Second))
	runner.Tick(ctx)
	st, _ := registry.Active()
	_, err := st.PlaceBid("X", decimal.RequireFromString("1.30"))
	require.NoError(t, err)

	// several ticks past the end observe the same expired window
	clock.Set(defs[0].EndTime.Add(time.Second))
	runner.Tick(ctx)
	runner.Tick(ctx)
	runner.Tick(ctx)

	require.Len(t, outcomes, 1, "completion must run at most once per auction")
	require.Equal(t, "X", *outcomes[0].Winner)
	require.True(t, st.Ended())

	_, ok := registry.Active()
	require.False(t, ok, "completed ledger is discarded")
}

func TestRunner_MovesToNextAuction(t *testing.T) {
	runner, registry, clock, defs := runnerFixture()
	ctx := context.Background()

	clock.Set(defs[0].StartTime.Add(time.Second))
	runner.Tick(ctx)

	// jump straight into B's window: A completes, B activates
	clock.Set(defs[1].StartTime.Add(time.Second))
	runner.Tick(ctx)

	st, ok := registry.Active()
	require.True(t, ok)
	require.Equal(t, defs[1].ID, st.Definition().ID)
	require.True(t, st.CurrentBid().Equal(decimal.RequireFromString("0.50")),
		"fresh ledger starts at the new auction's launch price")
}

func TestRegistry_GetByID(t *testing.T) {
	registry := NewRegistry()
	def := domain.AuctionDefinition{ID: uuid.New(), LaunchPrice: decimal.RequireFromString("1")}
	st := domain.NewAuctionState(def, domain.StateConfig{})
	registry.Activate(st)

	got, err := registry.Get(def.ID)
	require.NoError(t, err)
	require.Same(t, st, got)

	_, err = registry.Get(uuid.New())
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)

	registry.Clear()
	_, err = registry.Get(def.ID)
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)
}
