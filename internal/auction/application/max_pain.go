package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// minCeilingFactor is the marketplace policy for opting into max pain: the
// ceiling must be at least twice the auction's launch price. The ledger is
// agnostic of launch price, so the policy lives here.
var minCeilingFactor = decimal.NewFromInt(2)

// MaxPainDTO is the input for the SetMaxPain use case.
type MaxPainDTO struct {
	AuctionID uuid.UUID
	Bidder    string
	Ceiling   decimal.Decimal
}

// MaxPainUseCase installs or clears the auction's auto-bid directive.
type MaxPainUseCase struct {
	registry *Registry
}

func NewMaxPainUseCase(registry *Registry) *MaxPainUseCase {
	return &MaxPainUseCase{registry: registry}
}

func (uc *MaxPainUseCase) Set(ctx context.Context, cmd MaxPainDTO) error {
	ledger, err := uc.registry.Get(cmd.AuctionID)
	if err != nil {
		return fmt.Errorf("max pain use case: auction %s: %w", cmd.AuctionID, err)
	}

	minCeiling := ledger.Definition().LaunchPrice.Mul(minCeilingFactor)
	if cmd.Ceiling.LessThan(minCeiling) {
		log.Warn("MaxPainUseCase: ceiling below policy minimum",
			zap.String("auctionID", cmd.AuctionID.String()),
			zap.String("bidder", cmd.Bidder),
			zap.String("ceiling", cmd.Ceiling.String()),
			zap.String("minCeiling", minCeiling.String()),
		)
		return domain.ErrInvalidMaxPainCeiling
	}

	if err := ledger.SetMaxPain(cmd.Bidder, cmd.Ceiling); err != nil {
		return fmt.Errorf("max pain use case: %w", err)
	}
	return nil
}

func (uc *MaxPainUseCase) Cancel(ctx context.Context, auctionID uuid.UUID) error {
	ledger, err := uc.registry.Get(auctionID)
	if err != nil {
		return fmt.Errorf("max pain use case: auction %s: %w", auctionID, err)
	}
	ledger.CancelMaxPain()
	return nil
}
