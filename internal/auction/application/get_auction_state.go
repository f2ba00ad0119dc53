package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionStateDTO is the output DTO exposing ledger state to the UI/WS.
// It is a snapshot: callers must not feed it back in.
type AuctionStateDTO struct {
	AuctionID    uuid.UUID       `json:"auction_id"`
	Title        string          `json:"title"`
	Artist       string          `json:"artist"`
	Token        string          `json:"token"`
	CurrentBid   decimal.Decimal `json:"current_bid"`
	Leader       *string         `json:"leader,omitempty"`
	MinNextBid   decimal.Decimal `json:"min_next_bid"`
	MaxNextBid   decimal.Decimal `json:"max_next_bid"`
	BidCount     int             `json:"bid_count"`
	EndTime      time.Time       `json:"end_time"`
	RemainingSec int64           `json:"remaining_sec"`
	Ended        bool            `json:"ended"`
	Winner       *string         `json:"winner,omitempty"`
}

// GetAuctionStateUseCase projects the live ledger into a read-only DTO.
type GetAuctionStateUseCase struct {
	registry *Registry
	now      func() time.Time
}

func NewGetAuctionStateUseCase(registry *Registry, now func() time.Time) *GetAuctionStateUseCase {
	if now == nil {
		now = time.Now
	}
	return &GetAuctionStateUseCase{registry: registry, now: now}
}

func (uc *GetAuctionStateUseCase) Execute(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error) {
	ledger, err := uc.registry.Get(auctionID)
	if err != nil {
		return nil, err
	}

	def := ledger.Definition()
	dto := &AuctionStateDTO{
		AuctionID:    def.ID,
		Title:        def.Title,
		Artist:       def.Artist,
		Token:        def.Token,
		CurrentBid:   ledger.CurrentBid(),
		MinNextBid:   ledger.MinNextBid(),
		MaxNextBid:   ledger.MaxNextBid(),
		BidCount:     len(ledger.Bids()),
		EndTime:      def.EndTime,
		RemainingSec: int64(ledger.TimeRemaining(uc.now()).Seconds()),
		Ended:        ledger.Ended(),
	}
	if leader, ok := ledger.Leader(); ok {
		dto.Leader = &leader
	}
	if winner, ok := ledger.Winner(); ok {
		dto.Winner = &winner
	}
	return dto, nil
}
