package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintbay/nftauction/internal/auction/domain"
	"github.com/mintbay/nftauction/internal/shared/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// PlaceBidDTO is the input for the PlaceBid use case.
type PlaceBidDTO struct {
	AuctionID uuid.UUID
	Bidder    string
	Amount    decimal.Decimal
}

// PlaceBidUseCase places a bid against the active ledger: the bid is
// submitted to the chain first, the in-memory state mutates only after
// confirmation, and the bid plus pool snapshot are archived in the same
// transaction.
type PlaceBidUseCase struct {
	registry *Registry
	chain    domain.Chain
	bidRepo  domain.BidRepository
	poolRepo domain.PoolRepository
	dbPool   *pgxpool.Pool
}

// NewPlaceBidUseCase creates a new instance of PlaceBidUseCase; it
// receives its dependencies through injection.
func NewPlaceBidUseCase(registry *Registry, chain domain.Chain,
	bidRepo domain.BidRepository, poolRepo domain.PoolRepository,
	dbPool *pgxpool.Pool) *PlaceBidUseCase {

	return &PlaceBidUseCase{
		registry: registry,
		chain:    chain,
		bidRepo:  bidRepo,
		poolRepo: poolRepo,
		dbPool:   dbPool,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error) {
	log.Info("Executing PlaceBidUseCase",
		zap.String("auctionID", cmd.AuctionID.String()),
		zap.String("bidder", cmd.Bidder),
		zap.String("amount", cmd.Amount.String()),
	)
	// basic input validation, business rules live in the domain
	if !cmd.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	ledger, err := uc.registry.Get(cmd.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("place bid use case: auction %s: %w", cmd.AuctionID, err)
	}

	// The chain confirms before any in-memory mutation; a rejected or
	// failed submission leaves the ledger untouched.
	txHash, err := uc.chain.SubmitBid(ctx, cmd.AuctionID, cmd.Bidder, cmd.Amount)
	if err != nil {
		log.Warn("PlaceBidUseCase: chain submission failed",
			zap.String("auctionID", cmd.AuctionID.String()),
			zap.String("bidder", cmd.Bidder),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place bid use case: chain submission: %w", err)
	}

	newBid, err := ledger.PlaceBid(cmd.Bidder, cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("place bid use case: bid failed for auction %s: %w", cmd.AuctionID, err)
	}

	// Archive bid and pool snapshot atomically. Persistence is an archive,
	// not the source of truth; the ledger already accepted the bid.
	tx, err := uc.dbPool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		log.Error("PlaceBidUseCase: failed to begin transaction",
			zap.String("auctionID", cmd.AuctionID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place bid use case: failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("PlaceBidUseCase: recovered from panic during transaction",
				zap.String("auctionID", cmd.AuctionID.String()),
				zap.Any("panic", r),
			)
			_ = tx.Rollback(ctx)
			panic(r)
		}
		if err != nil {
			log.Warn("PlaceBidUseCase: rolling back transaction",
				zap.String("auctionID", cmd.AuctionID.String()),
				zap.Error(err),
			)
			_ = tx.Rollback(ctx)
			return
		}
		commitErr := tx.Commit(ctx)
		if commitErr != nil {
			log.Error("PlaceBidUseCase: failed to commit transaction",
				zap.String("auctionID", cmd.AuctionID.String()),
				zap.Error(commitErr),
			)
			err = fmt.Errorf("place bid use case: failed to commit transaction: %w", commitErr)
		}
	}()

	err = uc.bidRepo.Save(ctx, tx, newBid)
	if err != nil {
		log.Error("PlaceBidUseCase: failed to save new bid",
			zap.String("auctionID", cmd.AuctionID.String()),
			zap.String("bidID", newBid.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place bid use case: failed to save new bid: %w", err)
	}

	for _, pool := range ledger.Pools() {
		if pool.Bidder != cmd.Bidder {
			continue
		}
		p := pool
		err = uc.poolRepo.Save(ctx, tx, cmd.AuctionID, &p)
		if err != nil {
			log.Error("PlaceBidUseCase: failed to save pool snapshot",
				zap.String("auctionID", cmd.AuctionID.String()),
				zap.String("bidder", cmd.Bidder),
				zap.Error(err),
			)
			return nil, fmt.Errorf("place bid use case: failed to save pool snapshot: %w", err)
		}
		break
	}

	log.Info("PlaceBidUseCase: bid confirmed",
		zap.String("auctionID", cmd.AuctionID.String()),
		zap.String("bidID", newBid.ID.String()),
		zap.String("txHash", txHash),
	)
	return newBid, nil
}
