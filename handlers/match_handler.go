package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// CreateHandler godoc
// @Summary Создать матч
// @Tags matches
// @Description championship_id делает матч титульным. Титульные матчи нельзя назначать в окно заморозки перед главным событием.
// @Accept json
// @Produce json
// @Param match body services.CreateMatchInput true "Матч"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 422 {object} map[string]string "Окно заморозки"
// @Security BearerAuth
// @Router /matches [post]
func (h *MatchHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary Список матчей
// @Tags matches
// @Produce json
// @Param tournament_id query int false "Турнир"
// @Param player_id query int false "Участник"
// @Param status query string false "pending или resolved"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]interface{}
// @Router /matches [get]
func (h *MatchHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListMatchesFilter
	var err error

	if filter.TournamentID, err = queryInt(r, "tournament_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.PlayerID, err = queryInt(r, "player_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := models.MatchStatus(raw)
		if status != models.MatchStatusPending && status != models.MatchStatusResolved {
			badRequestResponse(w, r, errors.New("status must be pending or resolved"))
			return
		}
		filter.Status = &status
	}
	if filter.Limit, filter.Offset, err = pagination(r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.DeleteMatch(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResolveHandler godoc
// @Summary Разыграть матч
// @Tags matches
// @Description Определяет победителя, начисляет призовые и переносит титул. Повторный вызов возвращает сохраненный результат.
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Результат матча"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Конфликт транзакции, повторите запрос"
// @Failure 422 {object} map[string]string "У матча нет соперника"
// @Security BearerAuth
// @Router /matches/{matchID}/resolve [post]
func (h *MatchHandler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.matchService.ResolveMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PostNotificationHandler принимает JSON {"content": ...} или multipart форму с полями content и image.
func (h *MatchHandler) PostNotificationHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var (
		content     string
		image       io.Reader
		contentType string
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		content = r.FormValue("content")
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			image = file
			contentType = header.Header.Get("Content-Type")
		}
	} else {
		var input struct {
			Content string `json:"content"`
		}
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		content = input.Content
	}

	notification, err := h.matchService.PostNotification(r.Context(), matchID, content, image, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"notification": notification}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	notifications, err := h.matchService.ListNotifications(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notifications": notifications}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
