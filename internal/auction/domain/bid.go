package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid represents an individual bid inside one auction.
// Bids are append-only: once recorded they are never mutated or deleted.
type Bid struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	Bidder    string // wallet address of the bidder
	Amount    decimal.Decimal
	Timestamp time.Time
	AutoBid   bool // placed by the max-pain evaluator, not the user directly
}

// NewBid creates a new Bid instance.
func NewBid(auctionID uuid.UUID, bidder string, amount decimal.Decimal, ts time.Time, auto bool) *Bid {
	return &Bid{
		ID:        uuid.New(),
		AuctionID: auctionID,
		Bidder:    bidder,
		Amount:    amount,
		Timestamp: ts,
		AutoBid:   auto,
	}
}
