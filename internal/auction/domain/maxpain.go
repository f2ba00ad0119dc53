package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SetMaxPain installs (or replaces) the auction's single auto-bid
// directive. The ceiling must be positive and above the current bid; the
// 2x-launch-price floor is the caller's policy, the ledger is agnostic of
// launch price here.
func (s *AuctionState) SetMaxPain(bidder string, ceiling decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return ErrAuctionClosed
	}
	if !ceiling.IsPositive() || ceiling.LessThanOrEqual(s.currentBid) {
		return ErrInvalidMaxPainCeiling
	}
	s.maxPain = &MaxPainDirective{Owner: bidder, Ceiling: ceiling, Active: true}
	log.Info("max pain directive set",
		zap.String("auctionID", s.def.ID.String()),
		zap.String("owner", bidder),
		zap.String("ceiling", ceiling.String()),
	)
	return nil
}

// CancelMaxPain clears the directive entirely.
func (s *AuctionState) CancelMaxPain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxPain = nil
}

// MaxPain returns the current directive, if one is set.
func (s *AuctionState) MaxPain() (MaxPainDirective, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxPain == nil {
		return MaxPainDirective{}, false
	}
	return *s.maxPain, true
}

// scheduleMaxPain arms the deferred auto-bid evaluation after a leadership
// change. The checks here only avoid pointless timers; everything is
// re-validated at fire time against live state.
func (s *AuctionState) scheduleMaxPain() {
	s.mu.Lock()
	if !s.maxPainReadyLocked() {
		s.mu.Unlock()
		return
	}
	delay := s.settleDelay
	done := s.done
	s.mu.Unlock()

	timer := time.NewTimer(delay)
	go func() {
		defer timer.Stop()
		select {
		case <-done:
			// auction completed during the settling delay
			return
		case <-timer.C:
		}
		s.fireMaxPain()
	}()
}

// fireMaxPain applies the auto-bid. The world may have changed during the
// settling delay, so the step is recomputed from the live current bid and
// every PlaceBid precondition runs again; any failure is a silent no-op
// since the user never requested this specific bid.
func (s *AuctionState) fireMaxPain() {
	s.mu.Lock()
	if !s.maxPainReadyLocked() {
		s.mu.Unlock()
		return
	}
	owner := s.maxPain.Owner
	next := s.currentBid.Mul(stepFactor).Round(2)
	bid, prevLeader, leaderChanged, err := s.placeBidLocked(owner, next, true)
	s.mu.Unlock()
	if err != nil {
		log.Debug("auto-bid skipped",
			zap.String("auctionID", s.def.ID.String()),
			zap.String("owner", owner),
			zap.Error(err),
		)
		return
	}

	s.notifier.BidConfirmed(bid)
	if leaderChanged && prevLeader != nil {
		s.notifier.Outbid(s.def.ID, *prevLeader, next)
	}
	if leaderChanged {
		// re-arm in case the owner somehow is not leading; the ready check
		// makes this a no-op when they are
		s.scheduleMaxPain()
	}
}

// maxPainReadyLocked reports whether the directive can produce a next
// step: active, owner not already leading, step below the ceiling.
// Caller must hold s.mu.
func (s *AuctionState) maxPainReadyLocked() bool {
	if s.ended || s.maxPain == nil || !s.maxPain.Active {
		return false
	}
	if s.leader != nil && *s.leader == s.maxPain.Owner {
		return false
	}
	next := s.currentBid.Mul(stepFactor).Round(2)
	return next.LessThan(s.maxPain.Ceiling)
}
