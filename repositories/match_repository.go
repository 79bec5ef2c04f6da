package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound            = errors.New("match not found")
	ErrMatchAlreadyResolved     = errors.New("match already has a winner")
	ErrMatchTournamentInvalid   = errors.New("match tournament conflict or invalid")
	ErrMatchChampionshipInvalid = errors.New("match championship conflict or invalid")
	ErrMatchPlayerInvalid       = errors.New("match player conflict or invalid")
	ErrNotificationMatchInvalid = errors.New("notification match conflict or invalid")
)

type ListMatchesFilter struct {
	TournamentID *int
	PlayerID     *int
	Status       *models.MatchStatus
	Limit        int
	Offset       int
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.SingleMatch) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.SingleMatch, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.SingleMatch, error)
	List(ctx context.Context, exec SQLExecutor, filter ListMatchesFilter) ([]*models.SingleMatch, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, status *models.MatchStatus) ([]*models.SingleMatch, error)
	SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerID int, at time.Time) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, name, date, tournament_id, championship_id, p1_id, p2_id, winner_id,
		       prize_amount, entry_amount, is_championship, updated_at`

func scanMatch(row rowScanner) (*models.SingleMatch, error) {
	var m models.SingleMatch
	err := row.Scan(
		&m.ID, &m.Name, &m.Date, &m.TournamentID, &m.ChampionshipID, &m.P1ID, &m.P2ID, &m.WinnerID,
		&m.PrizeAmount, &m.EntryAmount, &m.IsChampionship, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.SingleMatch) error {
	query := `
		INSERT INTO single_matches
			(name, date, tournament_id, championship_id, p1_id, p2_id, winner_id,
			 prize_amount, entry_amount, is_championship)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, updated_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		m.Name, m.Date, m.TournamentID, m.ChampionshipID, m.P1ID, m.P2ID, m.WinnerID,
		m.PrizeAmount, m.EntryAmount, m.IsChampionship,
	).Scan(&m.ID, &m.UpdatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.SingleMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM single_matches WHERE id = $1`
	m, err := scanMatch(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return m, err
}

// GetForUpdate locks the match row. Resolution always locks the match before players and bands.
func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.SingleMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM single_matches WHERE id = $1 FOR UPDATE`
	m, err := scanMatch(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to lock match %d: %w", id, mapConflict(err))
	}
	return m, err
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter ListMatchesFilter) ([]*models.SingleMatch, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + matchColumns + ` FROM single_matches WHERE 1=1`)

	args := []interface{}{}
	argID := 1
	if filter.TournamentID != nil {
		qb.WriteString(fmt.Sprintf(" AND tournament_id = $%d", argID))
		args = append(args, *filter.TournamentID)
		argID++
	}
	if filter.PlayerID != nil {
		qb.WriteString(fmt.Sprintf(" AND (p1_id = $%d OR p2_id = $%d)", argID, argID))
		args = append(args, *filter.PlayerID)
		argID++
	}
	qb.WriteString(statusClause(filter.Status))
	qb.WriteString(" ORDER BY date ASC, id ASC")
	if filter.Limit > 0 {
		qb.WriteString(fmt.Sprintf(" LIMIT $%d", argID))
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		qb.WriteString(fmt.Sprintf(" OFFSET $%d", argID))
		args = append(args, filter.Offset)
	}

	return r.queryMatches(ctx, exec, qb.String(), args...)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, status *models.MatchStatus) ([]*models.SingleMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM single_matches WHERE tournament_id = $1` +
		statusClause(status) + ` ORDER BY id ASC`
	return r.queryMatches(ctx, exec, query, tournamentID)
}

func statusClause(status *models.MatchStatus) string {
	if status == nil {
		return ""
	}
	switch *status {
	case models.MatchStatusPending:
		return " AND winner_id IS NULL"
	case models.MatchStatusResolved:
		return " AND winner_id IS NOT NULL"
	}
	return ""
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.SingleMatch, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.SingleMatch, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

// SetWinner stores the winner once. A match that already has a winner is never overwritten.
func (r *postgresMatchRepository) SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerID int, at time.Time) error {
	query := `UPDATE single_matches SET winner_id = $1, updated_at = $2 WHERE id = $3 AND winner_id IS NULL`
	result, err := executor(r.db, exec).ExecContext(ctx, query, winnerID, at, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchAlreadyResolved)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM single_matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, mapConflict(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "single_matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "single_matches_championship_id_fkey":
			return ErrMatchChampionshipInvalid
		case "single_matches_p1_id_fkey", "single_matches_p2_id_fkey", "single_matches_winner_id_fkey",
			"single_matches_distinct_players":
			return ErrMatchPlayerInvalid
		}
	}
	return mapConflict(err)
}

type NotificationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, notification *models.Notification) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Notification, error)
}

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, exec SQLExecutor, n *models.Notification) error {
	query := `
		INSERT INTO notifications (match_id, content, image_key, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := executor(r.db, exec).QueryRowContext(ctx, query, n.MatchID, n.Content, n.ImageKey, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "notifications_match_id_fkey" {
			return ErrNotificationMatchInvalid
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *postgresNotificationRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Notification, error) {
	query := `
		SELECT id, match_id, content, image_key, created_at
		FROM notifications
		WHERE match_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for match %d: %w", matchID, err)
	}
	defer rows.Close()

	notifications := make([]*models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if scanErr := rows.Scan(&n.ID, &n.MatchID, &n.Content, &n.ImageKey, &n.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", scanErr)
		}
		notifications = append(notifications, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during notification rows iteration: %w", err)
	}
	return notifications, nil
}
