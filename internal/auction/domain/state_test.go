package domain

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type refundRec struct {
	bidder string
	amount decimal.Decimal
}

// capturePayout records every refund hand-off for inspection.
type capturePayout struct {
	mu      sync.Mutex
	refunds []refundRec
}

func (p *capturePayout) Enqueue(bidder string, amount decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refunds = append(p.refunds, refundRec{bidder: bidder, amount: amount})
}

func (p *capturePayout) all() []refundRec {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]refundRec, len(p.refunds))
	copy(out, p.refunds)
	return out
}

type captureNotifier struct {
	mu      sync.Mutex
	outbid  []string
	winners []string
}

func (n *captureNotifier) BidConfirmed(*Bid) {}

func (n *captureNotifier) Outbid(_ uuid.UUID, bidder string, _ decimal.Decimal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.outbid = append(n.outbid, bidder)
}

func (n *captureNotifier) Winner(_ uuid.UUID, winner string, _ decimal.Decimal, _ time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.winners = append(n.winners, winner)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testDefinition(launch string) AuctionDefinition {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return AuctionDefinition{
		ID:          uuid.New(),
		Title:       "Genesis Drop",
		Artist:      "0xrothko",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Token:       "ETH",
		LaunchPrice: dec(launch),
	}
}

func newTestState(launch string, payout PayoutQueue) *AuctionState {
	return NewAuctionState(testDefinition(launch), StateConfig{
		SettleDelay: 5 * time.Millisecond,
		Payout:      payout,
	})
}

// Scenario: Y's 1.25 is below the current 1.30 but above Y's own (empty)
// pool, so it is recorded without taking the lead. Pools are independent
// escrows, not a single auction price.
func TestPlaceBid_BelowCurrentStillRecorded(t *testing.T) {
	s := newTestState("1.10", nil)

	_, err := s.PlaceBid("X", dec("1.30"))
	require.NoError(t, err)
	leader, ok := s.Leader()
	require.True(t, ok)
	require.Equal(t, "X", leader)
	require.Equal(t, "1.3", s.CurrentBid().String())

	_, err = s.PlaceBid("Y", dec("1.25"))
	require.NoError(t, err)

	leader, _ = s.Leader()
	require.Equal(t, "X", leader, "lower bid must not take the lead")
	require.Equal(t, "1.3", s.CurrentBid().String())

	pools := s.Pools()
	require.Len(t, pools, 2)
	require.Equal(t, "Y", pools[1].Bidder)
	require.True(t, pools[1].Committed.Equal(dec("1.25")))
	require.True(t, pools[1].Active)
	require.Len(t, s.Bids(), 2, "bid is appended even without a leadership change")
}

func TestPlaceBid_SelfOutbidRejected(t *testing.T) {
	s := newTestState("1.10", nil)

	_, err := s.PlaceBid("X", dec("1.30"))
	require.NoError(t, err)

	// any amount, higher included
	_, err = s.PlaceBid("X", dec("1.50"))
	require.ErrorIs(t, err, ErrSelfOutbid)
	require.Len(t, s.Bids(), 1, "rejected bid must not be recorded")
}

func TestPlaceBid_StaleAgainstOwnPool(t *testing.T) {
	s := newTestState("1.10", nil)

	_, err := s.PlaceBid("Y", dec("1.25"))
	require.NoError(t, err)
	_, err = s.PlaceBid("X", dec("1.30"))
	require.NoError(t, err)

	// Y must beat their own 1.25, not the global 1.30
	_, err = s.PlaceBid("Y", dec("1.25"))
	require.ErrorIs(t, err, ErrStaleBid)
	_, err = s.PlaceBid("Y", dec("1.20"))
	require.ErrorIs(t, err, ErrStaleBid)

	_, err = s.PlaceBid("Y", dec("1.26"))
	require.NoError(t, err)
	leader, _ := s.Leader()
	require.Equal(t, "X", leader, "1.26 catches up but does not beat 1.30")
}

func TestPlaceBid_AfterWithdrawRejected(t *testing.T) {
	s := newTestState("1.10", nil)

	_, err := s.PlaceBid("Y", dec("1.20"))
	require.NoError(t, err)
	_, err = s.PlaceBid("X", dec("1.30"))
	require.NoError(t, err)

	refund, err := s.Withdraw("Y")
	require.NoError(t, err)
	require.True(t, refund.Equal(dec("1.20")))

	_, err = s.PlaceBid("Y", dec("2.00"))
	require.ErrorIs(t, err, ErrWithdrawnBidder)
}

func TestPlaceBid_ClosedAuction(t *testing.T) {
	s := newTestState("1.10", nil)
	s.Complete()

	_, err := s.PlaceBid("X", dec("1.30"))
	require.ErrorIs(t, err, ErrAuctionClosed)
}

func TestWithdraw_LeaderRejected(t *testing.T) {
	s := newTestState("1.10", nil)

	_, err := s.PlaceBid("X", dec("1.30"))
	require.NoError(t, err)

	_, err = s.Withdraw("X")
	require.ErrorIs(t, err, ErrCannotWithdrawWhileLeading)

	pools := s.Pools()
	require.True(t, pools[0].Active, "rejected withdraw must not deactivate the pool")
}

func TestWithdraw_NoActivePool(t *testing.T) {
	s := newTestState("1.10", nil)

	_, err := s.Withdraw("ghost")
	require.ErrorIs(t, err, ErrNoActivePool)

	_, err = s.PlaceBid("Y", dec("1.20"))
	require.NoError(t, err)
	_, err = s.PlaceBid("X", dec("1.30"))
	require.NoError(t, err)
	_, err = s.Withdraw("Y")
	require.NoError(t, err)

	// second withdraw hits the now-inactive pool
	_, err = s.Withdraw("Y")
	require.ErrorIs(t, err, ErrNoActivePool)
}

func TestComplete_RefundsNonWinnersInInsertionOrder(t *testing.T) {
	payout := &capturePayout{}
	s := newTestState("1.10", payout)

	_, err := s.PlaceBid("A", dec("1.20"))
	require.NoError(t, err)
	_, err = s.PlaceBid("B", dec("1.30"))
	require.NoError(t, err)
	_, err = s.PlaceBid("C", dec("1.40"))
	require.NoError(t, err)

	out := s.Complete()
	require.NotNil(t, out.Winner)
	require.Equal(t, "C", *out.Winner)
	require.True(t, out.FinalBid.Equal(dec("1.40")))

	refunds := payout.all()
	require.Len(t, refunds, 2)
	require.Equal(t, "A", refunds[0].bidder)
	require.True(t, refunds[0].amount.Equal(dec("1.20")))
	require.Equal(t, "B", refunds[1].bidder)
	require.True(t, refunds[1].amount.Equal(dec("1.30")))
}

func TestComplete_Idempotent(t *testing.T) {
	payout := &capturePayout{}
	s := newTestState("1.10", payout)

	_, err := s.PlaceBid("A", dec("1.20"))
	require.NoError(t, err)
	_, err = s.PlaceBid("B", dec("1.30"))
	require.NoError(t, err)

	first := s.Complete()
	second := s.Complete()

	require.Equal(t, first, second, "second Complete must observe identical state")
	require.Len(t, payout.all(), 1, "refunds must be enqueued exactly once")
	require.True(t, s.Ended())
}

func TestComplete_NoBidsNoWinner(t *testing.T) {
	payout := &capturePayout{}
	s := newTestState("1.10", payout)

	out := s.Complete()
	require.Nil(t, out.Winner)
	require.True(t, out.FinalBid.Equal(dec("1.10")))
	require.Empty(t, payout.all())
}

func TestComplete_WinnerMaxPainHeadroomRefunded(t *testing.T) {
	payout := &capturePayout{}
	s := newTestState("1.10", payout)

	_, err := s.PlaceBid("Z", dec("1.50"))
	require.NoError(t, err)
	require.NoError(t, s.SetMaxPain("Z", dec("2.20")))

	out := s.Complete()
	require.Equal(t, "Z", *out.Winner)

	refunds := payout.all()
	require.Len(t, refunds, 1)
	require.Equal(t, "Z", refunds[0].bidder)
	// escrowed up to the 2.20 ceiling, spent only 1.50
	require.True(t, refunds[0].amount.Equal(dec("0.70")), "got %s", refunds[0].amount)
}

func TestWithdraw_AfterCompleteRejected(t *testing.T) {
	payout := &capturePayout{}
	s := newTestState("1.10", payout)

	_, err := s.PlaceBid("A", dec("1.20"))
	require.NoError(t, err)
	_, err = s.PlaceBid("B", dec("1.30"))
	require.NoError(t, err)
	s.Complete()

	// A's pool was already settled by Complete; a late withdraw must not
	// produce a second refund
	_, err = s.Withdraw("A")
	require.ErrorIs(t, err, ErrAuctionClosed)
	require.Len(t, payout.all(), 1)
}

// currentBid never decreases across the bid log, and the leader's pool
// always covers it.
func TestInvariants_MonotonicBidAndCoveredLeader(t *testing.T) {
	s := newTestState("1.00", nil)

	bidders := []string{"A", "B", "C", "A", "B", "C", "A"}
	amounts := []string{"1.10", "1.05", "1.25", "1.30", "1.20", "1.60", "1.70"}

	prev := decimal.Zero
	for i, bidder := range bidders {
		_, err := s.PlaceBid(bidder, dec(amounts[i]))
		if err != nil {
			// self-outbid and stale rejections leave state untouched
			continue
		}
		current := s.CurrentBid()
		require.True(t, current.GreaterThanOrEqual(prev),
			"currentBid decreased: %s -> %s", prev, current)
		prev = current

		if leader, ok := s.Leader(); ok {
			var leaderPool *Pool
			for _, p := range s.Pools() {
				if p.Bidder == leader {
					q := p
					leaderPool = &q
				}
			}
			require.NotNil(t, leaderPool)
			require.True(t, leaderPool.Active)
			require.True(t, leaderPool.Committed.GreaterThanOrEqual(current))
		}
	}

	// the final price is the highest amount anywhere in the log
	bidLog := s.Bids()
	high := decimal.Zero
	for _, b := range bidLog {
		if b.Amount.GreaterThan(high) {
			high = b.Amount
		}
	}
	require.True(t, s.CurrentBid().Equal(high))
}

func TestProjections(t *testing.T) {
	s := newTestState("1.10", nil)

	_, err := s.PlaceBid("X", dec("1.30"))
	require.NoError(t, err)

	require.Equal(t, "1.31", s.MinNextBid().String(), "1.30 * 1.01 rounded")
	require.Equal(t, "13", s.MaxNextBid().String())

	def := s.Definition()
	require.Equal(t, time.Hour, s.TimeRemaining(def.StartTime))
	require.Equal(t, 30*time.Minute, s.TimeRemaining(def.StartTime.Add(30*time.Minute)))
	require.Equal(t, time.Duration(0), s.TimeRemaining(def.EndTime.Add(time.Minute)))
}

func TestNotifier_OutbidAndWinner(t *testing.T) {
	notifier := &captureNotifier{}
	s := NewAuctionState(testDefinition("1.10"), StateConfig{
		SettleDelay: 5 * time.Millisecond,
		Notifier:    notifier,
	})

	_, err := s.PlaceBid("X", dec("1.30"))
	require.NoError(t, err)
	_, err = s.PlaceBid("Y", dec("1.40"))
	require.NoError(t, err)
	s.Complete()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Equal(t, []string{"X"}, notifier.outbid)
	require.Equal(t, []string{"Y"}, notifier.winners)
}
