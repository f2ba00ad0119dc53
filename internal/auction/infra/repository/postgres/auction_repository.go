package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintbay/nftauction/internal/auction/domain"
)

// AuctionRepository implements domain.AuctionRepository for PostgreSQL.
type AuctionRepository struct {
	pool *pgxpool.Pool
}

func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

// Save stores or updates an auction definition. INSERT ON CONFLICT handles
// both creation and the admin flow editing an upcoming auction.
func (r *AuctionRepository) Save(ctx context.Context, tx pgx.Tx, def *domain.AuctionDefinition) error {
	query := `
        INSERT INTO auctions (id, title, artist, start_time, end_time, token, launch_price)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE
        SET
            title = EXCLUDED.title,
            artist = EXCLUDED.artist,
            start_time = EXCLUDED.start_time,
            end_time = EXCLUDED.end_time,
            token = EXCLUDED.token,
            launch_price = EXCLUDED.launch_price,
            updated_at = NOW();
    `
	_, err := tx.Exec(ctx, query,
		def.ID,
		def.Title,
		def.Artist,
		def.StartTime,
		def.EndTime,
		def.Token,
		def.LaunchPrice,
	)
	return err
}

func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuctionDefinition, error) {
	query := `
        SELECT id, title, artist, start_time, end_time, token, launch_price
        FROM auctions
        WHERE id = $1
    `
	def := &domain.AuctionDefinition{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&def.ID,
		&def.Title,
		&def.Artist,
		&def.StartTime,
		&def.EndTime,
		&def.Token,
		&def.LaunchPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return def, nil
}

// ListDefinitions returns the whole calendar ordered by start time; the
// schedule resolver re-sorts anyway but a stable read keeps logs sane.
func (r *AuctionRepository) ListDefinitions(ctx context.Context) ([]domain.AuctionDefinition, error) {
	query := `
        SELECT id, title, artist, start_time, end_time, token, launch_price
        FROM auctions
        ORDER BY start_time ASC, created_at ASC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []domain.AuctionDefinition
	for rows.Next() {
		var def domain.AuctionDefinition
		err := rows.Scan(
			&def.ID,
			&def.Title,
			&def.Artist,
			&def.StartTime,
			&def.EndTime,
			&def.Token,
			&def.LaunchPrice,
		)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}
