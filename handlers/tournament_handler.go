package handlers

import (
	"net/http"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

type matchSetupRequest struct {
	PlayerIDs  []int   `json:"player_ids"`
	Prize      float64 `json:"prize"`
	Entry      float64 `json:"entry"`
	NamePrefix string  `json:"name_prefix"`
}

type runTournamentRequest struct {
	Prize float64 `json:"prize"`
	Entry float64 `json:"entry"`
}

// optionalTournamentID - 0 для маршрутов без {tournamentID}: матчи создаются вне турнира.
func optionalTournamentID(r *http.Request) (int, error) {
	if chi.URLParam(r, "tournamentID") == "" {
		return 0, nil
	}
	return getIDFromURL(r, "tournamentID")
}

// CreateHandler godoc
// @Summary Создать турнир
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournament body services.TournamentInput true "Турнир"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 409 {object} map[string]string "Имя занято"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Турнир с матчами
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListTournamentsFilter
	var err error

	if filter.Completed, err = queryBool(r, "completed"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.IsMainEvent, err = queryBool(r, "main_event"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.Limit, filter.Offset, err = pagination(r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) UpdateDetailsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TournamentUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateLeagueHandler godoc
// @Summary Сгенерировать лигу
// @Tags tournaments
// @Description Для каждой группы и пола создает матчи всех уникальных пар активных игроков.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param format body models.LeagueFormat true "Группы, полы, префикс, призовые и взнос"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир или группа не найдены"
// @Failure 422 {object} map[string]string "Турнир завершен / мало игроков"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/league [post]
func (h *TournamentHandler) CreateLeagueHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := optionalTournamentID(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var format models.LeagueFormat
	if err := readJSON(w, r, &format); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.CreateLeague(r.Context(), tournamentID, format)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) CreateMatchSetupHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := optionalTournamentID(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input matchSetupRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.CreateMatchSetup(r.Context(), tournamentID, input.PlayerIDs, input.Prize, input.Entry, input.NamePrefix)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RunHandler godoc
// @Summary Довести турнир до чемпиона
// @Tags tournaments
// @Description Разыгрывает все ожидающие матчи, при ничьей по победам проводит тайбрейки, затем внезапную смерть.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param stakes body runTournamentRequest true "Призовые и взнос для тайбрейков"
// @Success 200 {object} map[string]interface{} "Итог турнира"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 422 {object} map[string]string "Нет разыгранных матчей"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/run [post]
func (h *TournamentHandler) RunHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input runTournamentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.tournamentService.RunTournamentToCompletion(r.Context(), tournamentID, input.Prize, input.Entry)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.tournamentService.GetStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
