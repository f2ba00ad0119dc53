package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintbay/nftauction/internal/auction/domain"
)

// PoolRepository implements domain.PoolRepository for PostgreSQL. One row
// per (auction, bidder); rows are deactivated, never deleted, so refund
// accounting stays inspectable.
type PoolRepository struct {
	pool *pgxpool.Pool
}

func NewPoolRepository(pool *pgxpool.Pool) *PoolRepository {
	return &PoolRepository{pool: pool}
}

func (r *PoolRepository) Save(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, p *domain.Pool) error {
	query := `
        INSERT INTO pools (auction_id, bidder, committed, bid_count, last_bid_at, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (auction_id, bidder) DO UPDATE
        SET
            committed = EXCLUDED.committed,
            bid_count = EXCLUDED.bid_count,
            last_bid_at = EXCLUDED.last_bid_at,
            active = EXCLUDED.active,
            updated_at = NOW();
    `
	_, err := tx.Exec(ctx, query,
		auctionID,
		p.Bidder,
		p.Committed,
		p.BidCount,
		p.LastBidAt,
		p.Active,
	)
	return err
}

func (r *PoolRepository) SetActive(ctx context.Context, auctionID uuid.UUID, bidder string, active bool) error {
	query := `
        UPDATE pools SET active = $3, updated_at = NOW()
        WHERE auction_id = $1 AND bidder = $2
    `
	_, err := r.pool.Exec(ctx, query, auctionID, bidder, active)
	return err
}

func (r *PoolRepository) GetPoolsByAuctionID(ctx context.Context, auctionID uuid.UUID) ([]*domain.Pool, error) {
	query := `
        SELECT bidder, committed, bid_count, last_bid_at, active
        FROM pools
        WHERE auction_id = $1
        ORDER BY last_bid_at ASC
    `
	rows, err := r.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []*domain.Pool
	for rows.Next() {
		p := &domain.Pool{}
		err := rows.Scan(
			&p.Bidder,
			&p.Committed,
			&p.BidCount,
			&p.LastBidAt,
			&p.Active,
		)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pools, nil
}
