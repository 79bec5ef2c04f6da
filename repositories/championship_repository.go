package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/lib/pq"
)

var (
	ErrChampionshipNotFound      = errors.New("championship not found")
	ErrChampionshipNameConflict  = errors.New("championship name already exists")
	ErrChampionshipPlayerInvalid = errors.New("championship holder conflict or invalid")
	ErrOpenReignNotFound         = errors.New("open championship reign not found")
)

type ChampionshipRepository interface {
	Create(ctx context.Context, exec SQLExecutor, championship *models.Championship) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Championship, error)
	ListByHolder(ctx context.Context, exec SQLExecutor, playerID int) ([]*models.Championship, error)
	Update(ctx context.Context, exec SQLExecutor, championship *models.Championship) error
}

// ChampionshipHistoryRepository is append-only apart from closing the open reign.
type ChampionshipHistoryRepository interface {
	OpenReign(ctx context.Context, exec SQLExecutor, reign *models.ChampionshipHistory) error
	CloseReign(ctx context.Context, exec SQLExecutor, championshipID, playerID int, endedAt time.Time) error
	GetOpenReign(ctx context.Context, exec SQLExecutor, championshipID int) (*models.ChampionshipHistory, error)
	ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) ([]*models.ChampionshipHistory, error)
}

type postgresChampionshipRepository struct {
	db *sql.DB
}

func NewPostgresChampionshipRepository(db *sql.DB) ChampionshipRepository {
	return &postgresChampionshipRepository{db: db}
}

const championshipColumns = `id, name, hike, player_id, image_key, created_at, updated_at`

func scanChampionship(row rowScanner) (*models.Championship, error) {
	var c models.Championship
	if err := row.Scan(&c.ID, &c.Name, &c.Hike, &c.PlayerID, &c.ImageKey, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create stores a new championship. UpdatedAt is used as the write timestamp and must be set by the caller.
func (r *postgresChampionshipRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Championship) error {
	query := `
		INSERT INTO championships (name, hike, player_id, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query, c.Name, c.Hike, c.PlayerID, c.ImageKey, c.UpdatedAt).
		Scan(&c.ID, &c.CreatedAt)
	return r.handleChampionshipError(err)
}

func (r *postgresChampionshipRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE id = $1`
	c, err := scanChampionship(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrChampionshipNotFound) {
		return nil, fmt.Errorf("failed to scan championship by id %d: %w", id, err)
	}
	return c, err
}

func (r *postgresChampionshipRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE id = $1 FOR UPDATE`
	c, err := scanChampionship(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrChampionshipNotFound) {
		return nil, fmt.Errorf("failed to lock championship %d: %w", id, mapConflict(err))
	}
	return c, err
}

func (r *postgresChampionshipRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Championship, error) {
	return r.queryChampionships(ctx, exec, `SELECT `+championshipColumns+` FROM championships ORDER BY id ASC`)
}

func (r *postgresChampionshipRepository) ListByHolder(ctx context.Context, exec SQLExecutor, playerID int) ([]*models.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE player_id = $1 ORDER BY id ASC`
	return r.queryChampionships(ctx, exec, query, playerID)
}

func (r *postgresChampionshipRepository) queryChampionships(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Championship, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query championships: %w", err)
	}
	defer rows.Close()

	championships := make([]*models.Championship, 0)
	for rows.Next() {
		c, scanErr := scanChampionship(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan championship row: %w", scanErr)
		}
		championships = append(championships, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during championship rows iteration: %w", err)
	}
	return championships, nil
}

func (r *postgresChampionshipRepository) Update(ctx context.Context, exec SQLExecutor, c *models.Championship) error {
	query := `
		UPDATE championships SET name = $1, hike = $2, player_id = $3, image_key = $4, updated_at = $5
		WHERE id = $6`
	result, err := executor(r.db, exec).ExecContext(ctx, query, c.Name, c.Hike, c.PlayerID, c.ImageKey, c.UpdatedAt, c.ID)
	if err != nil {
		return r.handleChampionshipError(err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) handleChampionshipError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "championships_name_key":
			return ErrChampionshipNameConflict
		case "championships_player_id_fkey":
			return ErrChampionshipPlayerInvalid
		}
	}
	return mapConflict(err)
}

type postgresChampionshipHistoryRepository struct {
	db *sql.DB
}

func NewPostgresChampionshipHistoryRepository(db *sql.DB) ChampionshipHistoryRepository {
	return &postgresChampionshipHistoryRepository{db: db}
}

func (r *postgresChampionshipHistoryRepository) OpenReign(ctx context.Context, exec SQLExecutor, h *models.ChampionshipHistory) error {
	query := `
		INSERT INTO championship_history (championship_id, player_id, started_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := executor(r.db, exec).QueryRowContext(ctx, query, h.ChampionshipID, h.PlayerID, h.StartedAt).Scan(&h.ID)
	if err != nil {
		var pqErr *pq.Error
		// championship_history_one_open_idx: частичный уникальный индекс по (championship_id) WHERE ended_at IS NULL
		if errors.As(err, &pqErr) && pqErr.Constraint == "championship_history_one_open_idx" {
			return fmt.Errorf("%w: championship %d already has an open reign", ErrTransactionConflict, h.ChampionshipID)
		}
		return fmt.Errorf("failed to open reign for championship %d: %w", h.ChampionshipID, mapConflict(err))
	}
	return nil
}

func (r *postgresChampionshipHistoryRepository) CloseReign(ctx context.Context, exec SQLExecutor, championshipID, playerID int, endedAt time.Time) error {
	query := `
		UPDATE championship_history SET ended_at = $1
		WHERE championship_id = $2 AND player_id = $3 AND ended_at IS NULL`
	result, err := executor(r.db, exec).ExecContext(ctx, query, endedAt, championshipID, playerID)
	if err != nil {
		return fmt.Errorf("failed to close reign for championship %d: %w", championshipID, mapConflict(err))
	}
	return checkAffectedRows(result, ErrOpenReignNotFound)
}

func (r *postgresChampionshipHistoryRepository) GetOpenReign(ctx context.Context, exec SQLExecutor, championshipID int) (*models.ChampionshipHistory, error) {
	query := `
		SELECT id, championship_id, player_id, started_at, ended_at
		FROM championship_history
		WHERE championship_id = $1 AND ended_at IS NULL`
	var h models.ChampionshipHistory
	err := executor(r.db, exec).QueryRowContext(ctx, query, championshipID).
		Scan(&h.ID, &h.ChampionshipID, &h.PlayerID, &h.StartedAt, &h.EndedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOpenReignNotFound
		}
		return nil, fmt.Errorf("failed to get open reign for championship %d: %w", championshipID, err)
	}
	return &h, nil
}

func (r *postgresChampionshipHistoryRepository) ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int) ([]*models.ChampionshipHistory, error) {
	query := `
		SELECT id, championship_id, player_id, started_at, ended_at
		FROM championship_history
		WHERE championship_id = $1
		ORDER BY started_at ASC, id ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to query championship history %d: %w", championshipID, err)
	}
	defer rows.Close()

	history := make([]*models.ChampionshipHistory, 0)
	for rows.Next() {
		var h models.ChampionshipHistory
		if scanErr := rows.Scan(&h.ID, &h.ChampionshipID, &h.PlayerID, &h.StartedAt, &h.EndedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan championship history row: %w", scanErr)
		}
		history = append(history, &h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during championship history rows iteration: %w", err)
	}
	return history, nil
}
