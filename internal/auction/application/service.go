package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/domain"
	"github.com/shopspring/decimal"
)

// AuctionService defines the application interface layer of the auction
// module, exposing the use cases to the outer layers (HTTP, WS).
type AuctionService interface {
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error)
	Withdraw(ctx context.Context, cmd WithdrawDTO) (decimal.Decimal, error)
	SetMaxPain(ctx context.Context, cmd MaxPainDTO) error
	CancelMaxPain(ctx context.Context, auctionID uuid.UUID) error
	GetAuctionState(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error)
	GetSchedule(ctx context.Context) (*ScheduleDTO, error)
}

type auctionService struct {
	placeBidUC *PlaceBidUseCase
	withdrawUC *WithdrawUseCase
	maxPainUC  *MaxPainUseCase
	stateUC    *GetAuctionStateUseCase
	scheduleUC *GetScheduleUseCase
}

func NewAuctionService(placeBidUC *PlaceBidUseCase, withdrawUC *WithdrawUseCase,
	maxPainUC *MaxPainUseCase, stateUC *GetAuctionStateUseCase,
	scheduleUC *GetScheduleUseCase) AuctionService {

	return &auctionService{
		placeBidUC: placeBidUC,
		withdrawUC: withdrawUC,
		maxPainUC:  maxPainUC,
		stateUC:    stateUC,
		scheduleUC: scheduleUC,
	}
}

func (as *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error) {
	return as.placeBidUC.Execute(ctx, cmd)
}

func (as *auctionService) Withdraw(ctx context.Context, cmd WithdrawDTO) (decimal.Decimal, error) {
	return as.withdrawUC.Execute(ctx, cmd)
}

func (as *auctionService) SetMaxPain(ctx context.Context, cmd MaxPainDTO) error {
	return as.maxPainUC.Set(ctx, cmd)
}

func (as *auctionService) CancelMaxPain(ctx context.Context, auctionID uuid.UUID) error {
	return as.maxPainUC.Cancel(ctx, auctionID)
}

func (as *auctionService) GetAuctionState(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error) {
	return as.stateUC.Execute(ctx, auctionID)
}

func (as *auctionService) GetSchedule(ctx context.Context) (*ScheduleDTO, error) {
	return as.scheduleUC.Execute(ctx)
}
