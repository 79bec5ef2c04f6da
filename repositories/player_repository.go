package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerBandInvalid    = errors.New("player band conflict or invalid")
	ErrPlayerSpouseInvalid  = errors.New("player spouse conflict or invalid")
	ErrPlayerSpouseConflict = errors.New("spouse is already married to another player")
)

type ListPlayersFilter struct {
	BandID     *int
	Gender     *models.Gender
	ActiveOnly bool
	Limit      int
	Offset     int
}

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	List(ctx context.Context, exec SQLExecutor, filter ListPlayersFilter) ([]*models.Player, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Player, error)
	Update(ctx context.Context, exec SQLExecutor, player *models.Player) error
	UpdateSpouse(ctx context.Context, exec SQLExecutor, playerID int, spouseID *int) error
	ListTopByNetWorth(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, name, gender, band_id, wins, matches_played, winning_percentage,
		       net_worth, active, spouse_id, image_key, created_at, updated_at`

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	err := row.Scan(
		&p.ID, &p.Name, &p.Gender, &p.BandID, &p.Wins, &p.MatchesPlayed, &p.WinningPercentage,
		&p.NetWorth, &p.Active, &p.SpouseID, &p.ImageKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	p.Recompute()
	query := `
		INSERT INTO players
			(name, gender, band_id, wins, matches_played, winning_percentage, net_worth, active, spouse_id, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		p.Name, p.Gender, p.BandID, p.Wins, p.MatchesPlayed, p.WinningPercentage,
		p.NetWorth, p.Active, p.SpouseID, p.ImageKey,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	p, err := scanPlayer(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to scan player by id %d: %w", id, err)
	}
	return p, err
}

// GetForUpdate locks the player row until the surrounding transaction ends.
func (r *postgresPlayerRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1 FOR UPDATE`
	p, err := scanPlayer(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to lock player %d: %w", id, mapConflict(err))
	}
	return p, err
}

func (r *postgresPlayerRepository) List(ctx context.Context, exec SQLExecutor, filter ListPlayersFilter) ([]*models.Player, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + playerColumns + ` FROM players WHERE 1=1`)

	args := []interface{}{}
	argID := 1
	if filter.BandID != nil {
		qb.WriteString(fmt.Sprintf(" AND band_id = $%d", argID))
		args = append(args, *filter.BandID)
		argID++
	}
	if filter.Gender != nil {
		qb.WriteString(fmt.Sprintf(" AND gender = $%d", argID))
		args = append(args, *filter.Gender)
		argID++
	}
	if filter.ActiveOnly {
		qb.WriteString(" AND active = TRUE")
	}
	qb.WriteString(" ORDER BY id ASC")
	if filter.Limit > 0 {
		qb.WriteString(fmt.Sprintf(" LIMIT $%d", argID))
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		qb.WriteString(fmt.Sprintf(" OFFSET $%d", argID))
		args = append(args, filter.Offset)
	}

	return r.queryPlayers(ctx, exec, qb.String(), args...)
}

// ListByIDs returns the players with the given ids ordered by id. Missing ids are simply absent.
func (r *postgresPlayerRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Player, error) {
	if len(ids) == 0 {
		return []*models.Player{}, nil
	}
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = ANY($1) ORDER BY id ASC`
	return r.queryPlayers(ctx, exec, query, pq.Array(ids))
}

func (r *postgresPlayerRepository) ListTopByNetWorth(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE active = TRUE ORDER BY net_worth DESC, id ASC LIMIT $1`
	return r.queryPlayers(ctx, exec, query, limit)
}

func (r *postgresPlayerRepository) queryPlayers(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Player, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

// Update writes every mutable column. The winning percentage is recomputed here, never taken from the caller.
func (r *postgresPlayerRepository) Update(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	p.Recompute()
	query := `
		UPDATE players SET
			name = $1, gender = $2, band_id = $3, wins = $4, matches_played = $5,
			winning_percentage = $6, net_worth = $7, active = $8, spouse_id = $9, image_key = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		p.Name, p.Gender, p.BandID, p.Wins, p.MatchesPlayed,
		p.WinningPercentage, p.NetWorth, p.Active, p.SpouseID, p.ImageKey,
		p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlayerNotFound
	}
	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) UpdateSpouse(ctx context.Context, exec SQLExecutor, playerID int, spouseID *int) error {
	query := `UPDATE players SET spouse_id = $1, updated_at = NOW() WHERE id = $2`
	result, err := executor(r.db, exec).ExecContext(ctx, query, spouseID, playerID)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "players_band_id_fkey":
			return ErrPlayerBandInvalid
		case "players_spouse_id_fkey", "players_spouse_not_self":
			return ErrPlayerSpouseInvalid
		case "players_spouse_id_key":
			return ErrPlayerSpouseConflict
		}
	}
	return mapConflict(err)
}
