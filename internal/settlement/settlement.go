// Package settlement holds the engine's outbound collaborators: on-chain
// bid submission and refund payouts. The engine invokes these, it never
// reimplements them; chain correctness belongs to the blockchain layer.
package settlement

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/shared/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// DemoChain implements domain.Chain without touching any chain: it
// confirms every bid immediately with a synthetic transaction hash. Used
// when the marketplace runs with no wallet connected.
type DemoChain struct{}

func NewDemoChain() *DemoChain { return &DemoChain{} }

func (c *DemoChain) SubmitBid(ctx context.Context, auctionID uuid.UUID, bidder string, amount decimal.Decimal) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	hash := "0x" + hex.EncodeToString(buf)
	log.Info("demo chain: bid confirmed",
		zap.String("auctionID", auctionID.String()),
		zap.String("bidder", bidder),
		zap.String("amount", amount.String()),
		zap.String("txHash", hash),
	)
	return hash, nil
}

// LogPayout implements domain.PayoutQueue by recording the refund and
// handing it off asynchronously. Fire-and-forget: the ledger never waits
// on it.
type LogPayout struct {
	sink chan payout
}

type payout struct {
	bidder string
	amount decimal.Decimal
}

func NewLogPayout() *LogPayout {
	return &LogPayout{sink: make(chan payout, 256)}
}

func (p *LogPayout) Enqueue(bidder string, amount decimal.Decimal) {
	select {
	case p.sink <- payout{bidder: bidder, amount: amount}:
	default:
		log.Error("payout queue full, refund dropped",
			zap.String("bidder", bidder),
			zap.String("amount", amount.String()),
		)
	}
}

// Run drains the queue until the context is cancelled.
func (p *LogPayout) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-p.sink:
			// real settlement would submit the refund transfer here
			log.Info("refund paid out",
				zap.String("bidder", r.bidder),
				zap.String("amount", r.amount.String()),
				zap.Time("at", time.Now()),
			)
		}
	}
}
