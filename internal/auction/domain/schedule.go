package domain

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// InterAuctionBuffer is the mandatory gap between the end of one auction
// and the start of the next. Schedules that squeeze it are flagged, not
// rejected.
const InterAuctionBuffer = 10 * time.Minute

// Schedule is the resolver's authoritative view of the auction calendar at
// one instant.
type Schedule struct {
	// Active is the auction whose window contains now, earliest start wins
	// when several qualify.
	Active *AuctionDefinition
	// Next is the head of Upcoming, nil when nothing is scheduled.
	Next *AuctionDefinition
	// Upcoming are the later-starting auctions in ascending start order.
	Upcoming []AuctionDefinition
	// HasOverlap flags windows closer than InterAuctionBuffer. Advisory:
	// resolution still prioritizes by start order.
	HasOverlap bool
	// BufferedNextStart is when the countdown should treat the next
	// auction as truly beginning, even if the nominal schedule claims
	// earlier. It gates display only, never the active-window test.
	BufferedNextStart time.Time
}

// Resolve is a pure function of (events, now): it sorts the calendar,
// flags buffer violations and picks the active and upcoming auctions.
// Events with identical start times keep their input order (stable sort).
func Resolve(events []AuctionDefinition, now time.Time) Schedule {
	sorted := make([]AuctionDefinition, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var sched Schedule
	for i := 1; i < len(sorted); i++ {
		prev, next := sorted[i-1], sorted[i]
		if next.StartTime.Before(prev.EndTime.Add(InterAuctionBuffer)) {
			sched.HasOverlap = true
			log.Warn("auction windows violate inter-auction buffer",
				zap.String("prev", prev.ID.String()),
				zap.String("next", next.ID.String()),
				zap.Time("prevEnd", prev.EndTime),
				zap.Time("nextStart", next.StartTime),
			)
		}
	}

	for i := range sorted {
		if sorted[i].Contains(now) {
			active := sorted[i]
			sched.Active = &active
			break // first by start time wins, later conflicts are held back
		}
	}

	for _, ev := range sorted {
		if !ev.StartTime.After(now) {
			continue
		}
		if sched.Active != nil && ev.ID == sched.Active.ID {
			continue
		}
		sched.Upcoming = append(sched.Upcoming, ev)
	}
	if len(sched.Upcoming) > 0 {
		next := sched.Upcoming[0]
		sched.Next = &next
		sched.BufferedNextStart = bufferedStart(next, sched.Active, sorted, now)
	}

	return sched
}

// bufferedStart pushes the next auction's displayed start past the buffer
// following the most recent end: the active auction's end if one runs,
// else the latest already-ended window, else now.
func bufferedStart(next AuctionDefinition, active *AuctionDefinition, sorted []AuctionDefinition, now time.Time) time.Time {
	lastEnd := now
	if active != nil {
		lastEnd = active.EndTime
	} else {
		found := false
		for _, ev := range sorted {
			if ev.EndTime.After(now) {
				continue
			}
			if !found || ev.EndTime.After(lastEnd) {
				lastEnd = ev.EndTime
				found = true
			}
		}
		if !found {
			lastEnd = now
		}
	}

	buffered := lastEnd.Add(InterAuctionBuffer)
	if next.StartTime.After(buffered) {
		return next.StartTime
	}
	return buffered
}
