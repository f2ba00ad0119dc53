package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionDefinition describes one scheduled auction. It is created by the
// minting/admin flow and never mutated afterwards; the live bidding state
// lives in AuctionState.
type AuctionDefinition struct {
	ID          uuid.UUID
	Title       string
	Artist      string
	StartTime   time.Time
	EndTime     time.Time
	Token       string // accepted-token descriptor, e.g. "ETH"
	LaunchPrice decimal.Decimal
}

// Contains reports whether the auction window contains the given instant.
// The start is inclusive, the end exclusive.
func (d AuctionDefinition) Contains(now time.Time) bool {
	return !now.Before(d.StartTime) && now.Before(d.EndTime)
}
