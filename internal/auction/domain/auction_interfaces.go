package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type AuctionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AuctionDefinition, error)
	Save(ctx context.Context, tx pgx.Tx, def *AuctionDefinition) error
	// ListDefinitions returns every known definition; the schedule resolver
	// decides which one is active.
	ListDefinitions(ctx context.Context) ([]AuctionDefinition, error)
}

type BidRepository interface {
	Save(ctx context.Context, tx pgx.Tx, bid *Bid) error
	GetBidsByAuctionID(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)
	GetLatestBidByAuctionID(ctx context.Context, auctionID uuid.UUID) (*Bid, error)
}

type PoolRepository interface {
	Save(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, pool *Pool) error
	SetActive(ctx context.Context, auctionID uuid.UUID, bidder string, active bool) error
	GetPoolsByAuctionID(ctx context.Context, auctionID uuid.UUID) ([]*Pool, error)
}

// Chain submits a bid to the settlement layer and returns a transaction
// hash. The caller awaits confirmation before mutating in-memory state.
type Chain interface {
	SubmitBid(ctx context.Context, auctionID uuid.UUID, bidder string, amount decimal.Decimal) (string, error)
}

// PayoutQueue receives refund hand-offs from the ledger. Enqueue is
// fire-and-forget: the ledger never blocks a state transition on payout
// success.
type PayoutQueue interface {
	Enqueue(bidder string, amount decimal.Decimal)
}

// Notifier receives state-change side effects. Implementations must not
// call back into the ledger; these hooks are not part of the invariant
// surface.
type Notifier interface {
	BidConfirmed(bid *Bid)
	Outbid(auctionID uuid.UUID, bidder string, newBid decimal.Decimal)
	Winner(auctionID uuid.UUID, winner string, finalBid decimal.Decimal, endedAt time.Time)
}
