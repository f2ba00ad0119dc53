package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func day(hh, mm int) time.Time {
	return time.Date(2024, 6, 1, hh, mm, 0, 0, time.UTC)
}

func event(title string, start, end time.Time) AuctionDefinition {
	return AuctionDefinition{
		ID:        uuid.New(),
		Title:     title,
		StartTime: start,
		EndTime:   end,
	}
}

// A spans [10:00, 11:00], B spans [11:05, 12:00]. The raw windows do not
// overlap, but B starts only 5 minutes after A ends, inside the 10 minute
// buffer.
func TestResolve_BufferViolationFlagged(t *testing.T) {
	a := event("A", day(10, 0), day(11, 0))
	b := event("B", day(11, 5), day(12, 0))

	sched := Resolve([]AuctionDefinition{a, b}, day(9, 0))
	require.True(t, sched.HasOverlap)

	// advisory only: resolution still works
	require.Nil(t, sched.Active)
	require.NotNil(t, sched.Next)
	require.Equal(t, a.ID, sched.Next.ID)
}

func TestResolve_ActiveSelection(t *testing.T) {
	a := event("A", day(10, 0), day(11, 0))
	b := event("B", day(10, 30), day(12, 0)) // overlaps A

	sched := Resolve([]AuctionDefinition{b, a}, day(10, 45))
	require.NotNil(t, sched.Active)
	require.Equal(t, a.ID, sched.Active.ID, "earliest start wins among qualifying windows")

	// the later-starting conflict is held back: it already started, so it
	// is neither active nor upcoming
	require.Empty(t, sched.Upcoming)
	require.Nil(t, sched.Next)
}

func TestResolve_UpcomingQueueOrdered(t *testing.T) {
	a := event("A", day(10, 0), day(11, 0))
	b := event("B", day(14, 0), day(15, 0))
	c := event("C", day(12, 0), day(13, 0))

	sched := Resolve([]AuctionDefinition{b, c, a}, day(10, 30))
	require.NotNil(t, sched.Active)
	require.Equal(t, a.ID, sched.Active.ID)

	require.Len(t, sched.Upcoming, 2)
	require.Equal(t, c.ID, sched.Upcoming[0].ID)
	require.Equal(t, b.ID, sched.Upcoming[1].ID)
	require.Equal(t, c.ID, sched.Next.ID)
}

// While A runs, B's nominal 11:05 start is pushed to 11:10 for display:
// A ends at 11:00 and the buffer adds 10 minutes.
func TestResolve_BufferedNextStartDuringActive(t *testing.T) {
	a := event("A", day(10, 0), day(11, 0))
	b := event("B", day(11, 5), day(12, 0))

	sched := Resolve([]AuctionDefinition{a, b}, day(10, 30))
	require.NotNil(t, sched.Active)
	require.Equal(t, a.ID, sched.Active.ID)
	require.Equal(t, day(11, 10), sched.BufferedNextStart)
}

// Once now passes B's nominal start, the active-window test is
// authoritative: the buffer gates the countdown only, never activation.
func TestResolve_BufferGatesDisplayNotActivation(t *testing.T) {
	a := event("A", day(10, 0), day(11, 0))
	b := event("B", day(11, 5), day(12, 0))

	sched := Resolve([]AuctionDefinition{a, b}, day(11, 30))
	require.NotNil(t, sched.Active)
	require.Equal(t, b.ID, sched.Active.ID)
}

func TestResolve_BufferedNextStartAfterEndedEvent(t *testing.T) {
	a := event("A", day(10, 0), day(11, 0))
	b := event("B", day(11, 5), day(12, 0))

	// A already ended, B not yet started: the countdown holds until 11:10
	sched := Resolve([]AuctionDefinition{a, b}, day(11, 2))
	require.Nil(t, sched.Active)
	require.Equal(t, b.ID, sched.Next.ID)
	require.Equal(t, day(11, 10), sched.BufferedNextStart)
}

func TestResolve_BufferedNextStartRespectsLaterNominalStart(t *testing.T) {
	a := event("A", day(10, 0), day(11, 0))
	b := event("B", day(11, 30), day(12, 0))

	sched := Resolve([]AuctionDefinition{a, b}, day(11, 2))
	require.Equal(t, day(11, 30), sched.BufferedNextStart, "nominal start already clears the buffer")
}

func TestResolve_NoHistoryFallsBackToNow(t *testing.T) {
	b := event("B", day(11, 5), day(12, 0))

	now := day(11, 2)
	sched := Resolve([]AuctionDefinition{b}, now)
	require.Equal(t, now.Add(InterAuctionBuffer), sched.BufferedNextStart)
}

func TestResolve_IdenticalStartsKeepInputOrder(t *testing.T) {
	a := event("A", day(10, 0), day(11, 0))
	b := event("B", day(10, 0), day(11, 0))

	sched := Resolve([]AuctionDefinition{a, b}, day(10, 30))
	require.Equal(t, a.ID, sched.Active.ID)

	sched = Resolve([]AuctionDefinition{b, a}, day(10, 30))
	require.Equal(t, b.ID, sched.Active.ID, "tie-break follows input order")
}

func TestResolve_Empty(t *testing.T) {
	sched := Resolve(nil, day(10, 0))
	require.Nil(t, sched.Active)
	require.Nil(t, sched.Next)
	require.Empty(t, sched.Upcoming)
	require.False(t, sched.HasOverlap)
	require.True(t, sched.BufferedNextStart.IsZero())
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	a := event("A", day(12, 0), day(13, 0))
	b := event("B", day(10, 0), day(11, 0))
	events := []AuctionDefinition{a, b}

	_ = Resolve(events, day(9, 0))
	require.Equal(t, a.ID, events[0].ID, "resolver must sort a copy")
	require.Equal(t, b.ID, events[1].ID)
}
