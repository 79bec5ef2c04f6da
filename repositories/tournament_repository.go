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
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentNameConflict  = errors.New("tournament name already exists")
	ErrTournamentInUse         = errors.New("tournament is in use (matches exist)")
	ErrTournamentWinnerInvalid = errors.New("tournament winner conflict or invalid")
)

type ListTournamentsFilter struct {
	Completed   *bool
	IsMainEvent *bool
	Limit       int
	Offset      int
}

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, exec SQLExecutor, filter ListTournamentsFilter) ([]*models.Tournament, error)
	Update(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	MarkCompleted(ctx context.Context, exec SQLExecutor, id int, winnerID int, at time.Time) error
	// ListMainEventsBetween returns not completed main events dated within [from, to].
	ListMainEventsBetween(ctx context.Context, exec SQLExecutor, from, to time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, date, completed, is_main_event, winner_id, created_at, updated_at`

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(&t.ID, &t.Name, &t.Date, &t.Completed, &t.IsMainEvent, &t.WinnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, date, completed, is_main_event)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query, t.Name, t.Date, t.Completed, t.IsMainEvent).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrTournamentNotFound) {
		return nil, fmt.Errorf("failed to scan tournament by id %d: %w", id, err)
	}
	return t, err
}

// GetForUpdate serializes tournament runs: two concurrent runs of the same tournament wait on this lock.
func (r *postgresTournamentRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`
	t, err := scanTournament(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrTournamentNotFound) {
		return nil, fmt.Errorf("failed to lock tournament %d: %w", id, mapConflict(err))
	}
	return t, err
}

func (r *postgresTournamentRepository) List(ctx context.Context, exec SQLExecutor, filter ListTournamentsFilter) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1
	if filter.Completed != nil {
		query += fmt.Sprintf(" AND completed = $%d", argID)
		args = append(args, *filter.Completed)
		argID++
	}
	if filter.IsMainEvent != nil {
		query += fmt.Sprintf(" AND is_main_event = $%d", argID)
		args = append(args, *filter.IsMainEvent)
		argID++
	}

	query += " ORDER BY date DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	return r.queryTournaments(ctx, exec, query, args...)
}

func (r *postgresTournamentRepository) ListMainEventsBetween(ctx context.Context, exec SQLExecutor, from, to time.Time) ([]*models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE is_main_event = TRUE AND completed = FALSE AND date BETWEEN $1 AND $2
		ORDER BY date ASC, id ASC`
	return r.queryTournaments(ctx, exec, query, from, to)
}

func (r *postgresTournamentRepository) queryTournaments(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Tournament, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	// winner_id и completed меняются только через MarkCompleted
	query := `
		UPDATE tournaments SET name = $1, date = $2, is_main_event = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query, t.Name, t.Date, t.IsMainEvent, t.ID).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTournamentNotFound
	}
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) MarkCompleted(ctx context.Context, exec SQLExecutor, id int, winnerID int, at time.Time) error {
	query := `UPDATE tournaments SET completed = TRUE, winner_id = $1, updated_at = $2 WHERE id = $3`
	result, err := executor(r.db, exec).ExecContext(ctx, query, winnerID, at, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Constraint == "tournaments_name_key":
			return ErrTournamentNameConflict
		case pqErr.Constraint == "tournaments_winner_id_fkey":
			return ErrTournamentWinnerInvalid
		case pqErr.Code == "23503":
			return ErrTournamentInUse
		}
	}
	return mapConflict(err)
}
