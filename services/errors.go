package services

import (
	"errors"

	"github.com/Dosada05/wrestling-league/repositories"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrIncompleteMatchup     = errors.New("match is missing a competitor")
	ErrNoEligibleDestination = errors.New("no band can afford this player")
	ErrPlayerNotOnOpenMarket = errors.New("player is not on the open market")
	ErrAuctionsDisabled      = errors.New("open market is not configured")
	ErrPlayerInactive        = errors.New("player is inactive")
	ErrChampionshipFreeze    = errors.New("championship matches are frozen before a main event")
	ErrInvalidSpouse         = errors.New("invalid spouse")
	ErrNotEnoughPlayers      = errors.New("not enough players to pair (minimum 2)")
	ErrTournamentCompleted   = errors.New("tournament is already completed")
	ErrNoResolvedMatches     = errors.New("tournament has no resolved matches")
	ErrMatchResolved         = errors.New("resolved matches cannot be changed")

	// Ошибки конфликтов
	ErrBandNameConflict         = errors.New("band name already exists")
	ErrChampionshipNameConflict = errors.New("championship name already exists")
	ErrTournamentNameConflict   = errors.New("tournament name already exists")
	ErrBandInUse                = errors.New("band still has players")
	ErrTournamentInUse          = errors.New("tournament still has matches")
	// ErrTransactionConflict совпадает с ошибкой репозиториев, чтобы errors.Is работал на обоих уровнях.
	ErrTransactionConflict = repositories.ErrTransactionConflict

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	ErrPlayerNotFound       = errors.New("player not found")
	ErrBandNotFound         = errors.New("band not found")
	ErrChampionshipNotFound = errors.New("championship not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrMatchNotFound        = errors.New("match not found")
)

// mapRepositoryError переводит ошибки репозиториев в ошибки сервисов. Незнакомые ошибки возвращаются как есть.
func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrChampionshipPlayerInvalid),
		errors.Is(err, repositories.ErrMatchPlayerInvalid),
		errors.Is(err, repositories.ErrTournamentWinnerInvalid):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrBandNotFound),
		errors.Is(err, repositories.ErrPlayerBandInvalid):
		return ErrBandNotFound
	case errors.Is(err, repositories.ErrChampionshipNotFound),
		errors.Is(err, repositories.ErrMatchChampionshipInvalid):
		return ErrChampionshipNotFound
	case errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrMatchTournamentInvalid):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchNotFound),
		errors.Is(err, repositories.ErrNotificationMatchInvalid):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrPlayerSpouseInvalid),
		errors.Is(err, repositories.ErrPlayerSpouseConflict):
		return ErrInvalidSpouse
	case errors.Is(err, repositories.ErrBandNameConflict):
		return ErrBandNameConflict
	case errors.Is(err, repositories.ErrChampionshipNameConflict):
		return ErrChampionshipNameConflict
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrBandInUse):
		return ErrBandInUse
	case errors.Is(err, repositories.ErrTournamentInUse):
		return ErrTournamentInUse
	}
	return err
}
