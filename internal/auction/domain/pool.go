package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pool is a bidder's personal escrow record for one auction. Committed is
// the bidder's current standing bid, not a sum of increments, and is
// monotonically non-decreasing while the pool is active. Pools are never
// deleted, only deactivated, so refund accounting can always inspect them.
type Pool struct {
	Bidder    string
	Committed decimal.Decimal
	BidCount  int
	LastBidAt time.Time
	Active    bool
}

// MaxPainDirective is an opt-in auto-bid order: whenever its owner is
// outbid, the evaluator raises the owner's bid by 1% up to Ceiling.
// At most one directive exists per auction.
type MaxPainDirective struct {
	Owner   string
	Ceiling decimal.Decimal
	Active  bool
}
