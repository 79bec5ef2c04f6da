package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/lib/pq"
)

var ErrAuctionReferenceInvalid = errors.New("auction player or band conflict or invalid")

// AuctionRepository - журнал переходов, записи только добавляются.
type AuctionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, auction *models.Auction) error
	List(ctx context.Context, exec SQLExecutor, playerID *int, limit, offset int) ([]*models.Auction, error)
}

type postgresAuctionRepository struct {
	db *sql.DB
}

func NewPostgresAuctionRepository(db *sql.DB) AuctionRepository {
	return &postgresAuctionRepository{db: db}
}

func (r *postgresAuctionRepository) Create(ctx context.Context, exec SQLExecutor, a *models.Auction) error {
	query := `
		INSERT INTO auctions (player_id, from_band_id, to_band_id, price, auctioned_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := executor(r.db, exec).QueryRowContext(ctx, query, a.PlayerID, a.FromBandID, a.ToBandID, a.Price, a.AuctionedAt).
		Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrAuctionReferenceInvalid
		}
		return fmt.Errorf("failed to create auction record: %w", mapConflict(err))
	}
	return nil
}

func (r *postgresAuctionRepository) List(ctx context.Context, exec SQLExecutor, playerID *int, limit, offset int) ([]*models.Auction, error) {
	query := `SELECT id, player_id, from_band_id, to_band_id, price, auctioned_at FROM auctions WHERE 1=1`
	args := []interface{}{}
	argID := 1
	if playerID != nil {
		query += fmt.Sprintf(" AND player_id = $%d", argID)
		args = append(args, *playerID)
		argID++
	}
	query += " ORDER BY auctioned_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, limit)
		argID++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, offset)
	}

	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query auctions: %w", err)
	}
	defer rows.Close()

	auctions := make([]*models.Auction, 0)
	for rows.Next() {
		var a models.Auction
		if scanErr := rows.Scan(&a.ID, &a.PlayerID, &a.FromBandID, &a.ToBandID, &a.Price, &a.AuctionedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan auction row: %w", scanErr)
		}
		auctions = append(auctions, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during auction rows iteration: %w", err)
	}
	return auctions, nil
}
