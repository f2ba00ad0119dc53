package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WithdrawDTO is the input for the Withdraw use case.
type WithdrawDTO struct {
	AuctionID uuid.UUID
	Bidder    string
}

// WithdrawUseCase deactivates a bidder's pool and hands the committed
// amount to the payout queue.
type WithdrawUseCase struct {
	registry *Registry
	payout   domain.PayoutQueue
	poolRepo domain.PoolRepository
}

func NewWithdrawUseCase(registry *Registry, payout domain.PayoutQueue, poolRepo domain.PoolRepository) *WithdrawUseCase {
	return &WithdrawUseCase{
		registry: registry,
		payout:   payout,
		poolRepo: poolRepo,
	}
}

func (uc *WithdrawUseCase) Execute(ctx context.Context, cmd WithdrawDTO) (decimal.Decimal, error) {
	ledger, err := uc.registry.Get(cmd.AuctionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdraw use case: auction %s: %w", cmd.AuctionID, err)
	}

	refund, err := ledger.Withdraw(cmd.Bidder)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdraw use case: %w", err)
	}

	// fire-and-forget refund to the settlement layer
	uc.payout.Enqueue(cmd.Bidder, refund)

	if err := uc.poolRepo.SetActive(ctx, cmd.AuctionID, cmd.Bidder, false); err != nil {
		// the ledger already withdrew; archive lag is logged, not surfaced
		log.Error("WithdrawUseCase: failed to archive pool deactivation",
			zap.String("auctionID", cmd.AuctionID.String()),
			zap.String("bidder", cmd.Bidder),
			zap.Error(err),
		)
	}

	log.Info("WithdrawUseCase: pool withdrawn",
		zap.String("auctionID", cmd.AuctionID.String()),
		zap.String("bidder", cmd.Bidder),
		zap.String("refund", refund.String()),
	)
	return refund, nil
}
