package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/lib/pq"
)

var (
	ErrBandNotFound     = errors.New("band not found")
	ErrBandNameConflict = errors.New("band name already exists")
	ErrBandInUse        = errors.New("band still has players")
)

type BandRepository interface {
	Create(ctx context.Context, exec SQLExecutor, band *models.Band) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Band, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Band, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Band, error)
	// ListForUpdateExcept locks every band except excludeID, ordered by id.
	ListForUpdateExcept(ctx context.Context, exec SQLExecutor, excludeID int) ([]*models.Band, error)
	Update(ctx context.Context, exec SQLExecutor, band *models.Band) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	ListTopByNetWorth(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Band, error)
}

type postgresBandRepository struct {
	db *sql.DB
}

func NewPostgresBandRepository(db *sql.DB) BandRepository {
	return &postgresBandRepository{db: db}
}

const bandColumns = `id, name, net_worth, image_key, created_at`

func scanBand(row rowScanner) (*models.Band, error) {
	var b models.Band
	if err := row.Scan(&b.ID, &b.Name, &b.NetWorth, &b.ImageKey, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBandNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *postgresBandRepository) Create(ctx context.Context, exec SQLExecutor, b *models.Band) error {
	query := `INSERT INTO bands (name, net_worth, image_key) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query, b.Name, b.NetWorth, b.ImageKey).Scan(&b.ID, &b.CreatedAt)
	return r.handleBandError(err)
}

func (r *postgresBandRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Band, error) {
	query := `SELECT ` + bandColumns + ` FROM bands WHERE id = $1`
	b, err := scanBand(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrBandNotFound) {
		return nil, fmt.Errorf("failed to scan band by id %d: %w", id, err)
	}
	return b, err
}

func (r *postgresBandRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Band, error) {
	query := `SELECT ` + bandColumns + ` FROM bands WHERE id = $1 FOR UPDATE`
	b, err := scanBand(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrBandNotFound) {
		return nil, fmt.Errorf("failed to lock band %d: %w", id, mapConflict(err))
	}
	return b, err
}

func (r *postgresBandRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Band, error) {
	return r.queryBands(ctx, exec, `SELECT `+bandColumns+` FROM bands ORDER BY name ASC, id ASC`)
}

func (r *postgresBandRepository) ListForUpdateExcept(ctx context.Context, exec SQLExecutor, excludeID int) ([]*models.Band, error) {
	query := `SELECT ` + bandColumns + ` FROM bands WHERE id <> $1 ORDER BY id ASC FOR UPDATE`
	return r.queryBands(ctx, exec, query, excludeID)
}

func (r *postgresBandRepository) ListTopByNetWorth(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Band, error) {
	query := `SELECT ` + bandColumns + ` FROM bands ORDER BY net_worth DESC, id ASC LIMIT $1`
	return r.queryBands(ctx, exec, query, limit)
}

func (r *postgresBandRepository) queryBands(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Band, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bands: %w", mapConflict(err))
	}
	defer rows.Close()

	bands := make([]*models.Band, 0)
	for rows.Next() {
		b, scanErr := scanBand(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan band row: %w", scanErr)
		}
		bands = append(bands, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during band rows iteration: %w", err)
	}
	return bands, nil
}

func (r *postgresBandRepository) Update(ctx context.Context, exec SQLExecutor, b *models.Band) error {
	query := `UPDATE bands SET name = $1, net_worth = $2, image_key = $3 WHERE id = $4`
	result, err := executor(r.db, exec).ExecContext(ctx, query, b.Name, b.NetWorth, b.ImageKey, b.ID)
	if err != nil {
		return r.handleBandError(err)
	}
	return checkAffectedRows(result, ErrBandNotFound)
}

func (r *postgresBandRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM bands WHERE id = $1`, id)
	if err != nil {
		return r.handleBandError(err)
	}
	return checkAffectedRows(result, ErrBandNotFound)
}

func (r *postgresBandRepository) handleBandError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "bands_name_key" {
				return ErrBandNameConflict
			}
		case "23503":
			return ErrBandInUse
		}
	}
	return mapConflict(err)
}
