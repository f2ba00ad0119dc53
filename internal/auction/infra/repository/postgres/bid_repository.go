package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintbay/nftauction/internal/auction/domain"
)

// BidRepository implements domain.BidRepository for PostgreSQL. The bids
// table is an append-only archive of the in-memory bid log.
type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

// Save inserts a new bid; the surrounding transaction also updates the
// bidder's pool snapshot.
func (r *BidRepository) Save(ctx context.Context, tx pgx.Tx, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, auction_id, bidder, amount, auto_bid, "timestamp")
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := tx.Exec(ctx, query,
		bid.ID,
		bid.AuctionID,
		bid.Bidder,
		bid.Amount,
		bid.AutoBid,
		bid.Timestamp,
	)
	return err
}

func (r *BidRepository) GetBidsByAuctionID(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder, amount, auto_bid, "timestamp"
        FROM bids
        WHERE auction_id = $1
        ORDER BY "timestamp" ASC
    `
	rows, err := r.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid := &domain.Bid{}
		err := rows.Scan(
			&bid.ID,
			&bid.AuctionID,
			&bid.Bidder,
			&bid.Amount,
			&bid.AutoBid,
			&bid.Timestamp,
		)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *BidRepository) GetLatestBidByAuctionID(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder, amount, auto_bid, "timestamp"
        FROM bids
        WHERE auction_id = $1
        ORDER BY "timestamp" DESC
        LIMIT 1
    `
	bid := &domain.Bid{}
	err := r.pool.QueryRow(ctx, query, auctionID).Scan(
		&bid.ID,
		&bid.AuctionID,
		&bid.Bidder,
		&bid.Amount,
		&bid.AutoBid,
		&bid.Timestamp,
	)
	if err != nil {
		// no bids yet for this auction
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}
