package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/shared/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// defaultSettleDelay models wallet/chain confirmation latency before an
// auto-bid fires. Overridable through StateConfig (tests use a short one).
const defaultSettleDelay = 2 * time.Second

var (
	stepFactor       = decimal.NewFromFloat(1.01) // 1% raise per auto-bid step
	maxNextBidFactor = decimal.NewFromInt(10)
)

// StateConfig carries the collaborators of one AuctionState. Zero values
// get safe defaults: real clock, default settle delay, no-op payout and
// notifier.
type StateConfig struct {
	Now         func() time.Time
	SettleDelay time.Duration
	Payout      PayoutQueue
	Notifier    Notifier
}

// AuctionState is the aggregate root for one auction's live bidding: the
// current high bid, the leader, one escrow pool per bidder, the optional
// max-pain directive and end-of-auction bookkeeping. A mutex protects the
// whole aggregate; every operation is all-or-nothing.
//
// The engine owns no ambient state: each AuctionState is independent, so
// distinct auctions can be processed in parallel and tests can build as
// many instances as they need without cross-contamination.
type AuctionState struct {
	mu         sync.Mutex
	def        AuctionDefinition
	currentBid decimal.Decimal
	leader     *string
	bids       []*Bid
	pools      map[string]*Pool
	poolOrder  []string // insertion order, keeps refund iteration deterministic
	maxPain    *MaxPainDirective
	ended      bool
	winner     *string
	endedAt    time.Time
	done       chan struct{} // closed on Complete, cancels pending auto-bids

	now         func() time.Time
	settleDelay time.Duration
	payout      PayoutQueue
	notifier    Notifier
}

// NewAuctionState creates the live bidding state for one auction. The
// current bid starts at the definition's launch price with no leader.
func NewAuctionState(def AuctionDefinition, cfg StateConfig) *AuctionState {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if cfg.Payout == nil {
		cfg.Payout = NoopPayout{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NoopNotifier{}
	}
	return &AuctionState{
		def:         def,
		currentBid:  def.LaunchPrice,
		pools:       make(map[string]*Pool),
		done:        make(chan struct{}),
		now:         cfg.Now,
		settleDelay: cfg.SettleDelay,
		payout:      cfg.Payout,
		notifier:    cfg.Notifier,
	}
}

// PlaceBid records a bid by the given bidder. The bid must exceed the
// bidder's own committed amount; it only takes the lead when it also
// exceeds the global current bid. On a leadership change the max-pain
// evaluator is scheduled (deferred, never inline).
func (s *AuctionState) PlaceBid(bidder string, amount decimal.Decimal) (*Bid, error) {
	return s.placeBid(bidder, amount, false)
}

func (s *AuctionState) placeBid(bidder string, amount decimal.Decimal, auto bool) (*Bid, error) {
	s.mu.Lock()
	bid, prevLeader, leaderChanged, err := s.placeBidLocked(bidder, amount, auto)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.notifier.BidConfirmed(bid)
	if leaderChanged && prevLeader != nil {
		s.notifier.Outbid(s.def.ID, *prevLeader, amount)
	}
	if leaderChanged {
		s.scheduleMaxPain()
	}
	return bid, nil
}

// placeBidLocked holds the full precondition chain, evaluated in order.
// Caller must hold s.mu.
func (s *AuctionState) placeBidLocked(bidder string, amount decimal.Decimal, auto bool) (bid *Bid, prevLeader *string, leaderChanged bool, err error) {
	if s.ended {
		return nil, nil, false, ErrAuctionClosed
	}
	if s.leader != nil && *s.leader == bidder {
		log.Warn("bid rejected: self outbid",
			zap.String("auctionID", s.def.ID.String()),
			zap.String("bidder", bidder),
		)
		return nil, nil, false, ErrSelfOutbid
	}
	pool, exists := s.pools[bidder]
	if exists && !pool.Active {
		log.Warn("bid rejected: bidder withdrew",
			zap.String("auctionID", s.def.ID.String()),
			zap.String("bidder", bidder),
		)
		return nil, nil, false, ErrWithdrawnBidder
	}
	// A pool is an independent escrow: the new bid must exceed the bidder's
	// own prior commitment, not necessarily the global current bid.
	if exists && amount.LessThanOrEqual(pool.Committed) {
		log.Warn("bid rejected: stale against own pool",
			zap.String("auctionID", s.def.ID.String()),
			zap.String("bidder", bidder),
			zap.String("amount", amount.String()),
			zap.String("committed", pool.Committed.String()),
		)
		return nil, nil, false, ErrStaleBid
	}

	now := s.now()
	if !exists {
		pool = &Pool{Bidder: bidder}
		s.pools[bidder] = pool
		s.poolOrder = append(s.poolOrder, bidder)
	}
	pool.Committed = amount
	pool.BidCount++
	pool.LastBidAt = now
	pool.Active = true

	bid = NewBid(s.def.ID, bidder, amount, now, auto)
	s.bids = append(s.bids, bid)

	// Leadership changes only when the bid beats the global price. A bid
	// that merely catches up still raises the bidder's own escrow.
	if amount.GreaterThan(s.currentBid) {
		prevLeader = s.leader
		b := bidder
		s.leader = &b
		s.currentBid = amount
		leaderChanged = true
	}

	log.Info("bid placed",
		zap.String("auctionID", s.def.ID.String()),
		zap.String("bidID", bid.ID.String()),
		zap.String("bidder", bidder),
		zap.String("amount", amount.String()),
		zap.Bool("autoBid", auto),
		zap.Bool("tookLead", leaderChanged),
	)
	return bid, prevLeader, leaderChanged, nil
}

// Withdraw deactivates the bidder's pool and returns the committed amount
// to be refunded by the settlement layer. The current leader cannot
// withdraw, and nothing can be withdrawn once the auction ended (Complete
// already settled every pool).
func (s *AuctionState) Withdraw(bidder string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return decimal.Zero, ErrAuctionClosed
	}
	if s.leader != nil && *s.leader == bidder {
		log.Warn("withdraw rejected: bidder is leading",
			zap.String("auctionID", s.def.ID.String()),
			zap.String("bidder", bidder),
		)
		return decimal.Zero, ErrCannotWithdrawWhileLeading
	}
	pool, exists := s.pools[bidder]
	if !exists || !pool.Active {
		return decimal.Zero, ErrNoActivePool
	}

	pool.Active = false
	log.Info("bidder withdrew",
		zap.String("auctionID", s.def.ID.String()),
		zap.String("bidder", bidder),
		zap.String("refund", pool.Committed.String()),
	)
	return pool.Committed, nil
}

// Outcome is the frozen result of a completed auction.
type Outcome struct {
	AuctionID uuid.UUID
	Winner    *string
	FinalBid  decimal.Decimal
	EndedAt   time.Time
}

// Complete ends the auction, records the winner and enqueues refunds for
// every active non-winning pool plus the winner's unspent max-pain
// headroom. It is idempotent: a second call returns the recorded outcome
// and enqueues nothing.
func (s *AuctionState) Complete() Outcome {
	s.mu.Lock()
	if s.ended {
		out := s.outcomeLocked()
		s.mu.Unlock()
		return out
	}

	s.ended = true
	s.endedAt = s.now()
	s.winner = s.leader
	close(s.done) // cancel any pending auto-bid task

	type refund struct {
		bidder string
		amount decimal.Decimal
	}
	var refunds []refund
	for _, bidder := range s.poolOrder {
		pool := s.pools[bidder]
		if !pool.Active {
			continue
		}
		if s.winner != nil && *s.winner == bidder {
			continue
		}
		pool.Active = false
		refunds = append(refunds, refund{bidder, pool.Committed})
	}
	// The winner escrowed up to the max-pain ceiling but only spent the
	// final bid; the headroom goes back.
	if s.winner != nil && s.maxPain != nil && s.maxPain.Active && s.maxPain.Owner == *s.winner {
		headroom := s.maxPain.Ceiling.Sub(s.currentBid)
		if headroom.IsPositive() {
			refunds = append(refunds, refund{*s.winner, headroom})
		}
	}
	out := s.outcomeLocked()
	s.mu.Unlock()

	for _, r := range refunds {
		s.payout.Enqueue(r.bidder, r.amount)
	}
	if out.Winner != nil {
		s.notifier.Winner(out.AuctionID, *out.Winner, out.FinalBid, out.EndedAt)
	}
	log.Info("auction completed",
		zap.String("auctionID", s.def.ID.String()),
		zap.String("finalBid", out.FinalBid.String()),
		zap.Int("refunds", len(refunds)),
	)
	return out
}

func (s *AuctionState) outcomeLocked() Outcome {
	return Outcome{
		AuctionID: s.def.ID,
		Winner:    s.winner,
		FinalBid:  s.currentBid,
		EndedAt:   s.endedAt,
	}
}

// Definition returns the immutable auction definition.
func (s *AuctionState) Definition() AuctionDefinition { return s.def }

// CurrentBid returns the current high bid.
func (s *AuctionState) CurrentBid() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBid
}

// Leader returns the current leader, if any.
func (s *AuctionState) Leader() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leader == nil {
		return "", false
	}
	return *s.leader, true
}

// Ended reports whether the auction has completed.
func (s *AuctionState) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Winner returns the recorded winner once the auction ended.
func (s *AuctionState) Winner() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.winner == nil {
		return "", false
	}
	return *s.winner, true
}

// MinNextBid is the smallest bid that would take the lead: one auto-bid
// step above the current price, rounded to 2 decimal places.
func (s *AuctionState) MinNextBid() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBid.Mul(stepFactor).Round(2)
}

// MaxNextBid caps what the UI offers as a single raise.
func (s *AuctionState) MaxNextBid() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBid.Mul(maxNextBidFactor).Round(2)
}

// TimeRemaining returns how long until the auction's nominal end, zero
// once passed.
func (s *AuctionState) TimeRemaining(now time.Time) time.Duration {
	if remaining := s.def.EndTime.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// Bids returns a copy of the append-only bid log in placement order.
func (s *AuctionState) Bids() []*Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Bid, len(s.bids))
	copy(out, s.bids)
	return out
}

// Pools returns pool snapshots in insertion order.
func (s *AuctionState) Pools() []Pool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pool, 0, len(s.poolOrder))
	for _, bidder := range s.poolOrder {
		out = append(out, *s.pools[bidder])
	}
	return out
}

// NoopPayout discards refunds; the default when no settlement layer is
// wired.
type NoopPayout struct{}

func (NoopPayout) Enqueue(string, decimal.Decimal) {}

// NoopNotifier ignores all state-change hooks.
type NoopNotifier struct{}

func (NoopNotifier) BidConfirmed(*Bid)                                        {}
func (NoopNotifier) Outbid(uuid.UUID, string, decimal.Decimal)                {}
func (NoopNotifier) Winner(uuid.UUID, string, decimal.Decimal, time.Time)     {}
