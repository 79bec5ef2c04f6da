package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
	"github.com/Dosada05/wrestling-league/services"
)

type PlayerHandler struct {
	playerService  services.PlayerService
	auctionService services.AuctionService
}

func NewPlayerHandler(ps services.PlayerService, as services.AuctionService) *PlayerHandler {
	return &PlayerHandler{
		playerService:  ps,
		auctionService: as,
	}
}

// CreatePlayer godoc
// @Summary Создать игрока
// @Tags players
// @Accept json
// @Produce json
// @Param player body services.PlayerInput true "Игрок"
// @Success 201 {object} map[string]interface{} "Созданный игрок"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Security BearerAuth
// @Router /players [post]
func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.CreatePlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPlayer godoc
// @Summary Получить игрока
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{playerID} [get]
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayer(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPlayers godoc
// @Summary Список игроков
// @Tags players
// @Produce json
// @Param band_id query int false "Фильтр по группе"
// @Param gender query string false "Male, Female или Others"
// @Param active query bool false "Только активные"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]interface{}
// @Router /players [get]
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListPlayersFilter
	var err error

	if filter.BandID, err = queryInt(r, "band_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("gender")); raw != "" {
		gender := models.Gender(raw)
		if !gender.Valid() {
			badRequestResponse(w, r, errors.New("gender must be Male, Female or Others"))
			return
		}
		filter.Gender = &gender
	}
	active, err := queryBool(r, "active")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.ActiveOnly = active != nil && *active
	if filter.Limit, filter.Offset, err = pagination(r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.playerService.ListPlayers(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdatePlayer godoc
// @Summary Обновить игрока
// @Tags players
// @Description Частичное обновление. spouse_id связывает пару в обе стороны, clear_spouse разводит.
// @Accept json
// @Produce json
// @Param playerID path int true "Player ID"
// @Param player body services.PlayerUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Failure 409 {object} map[string]string "Конфликт транзакции"
// @Security BearerAuth
// @Router /players/{playerID} [patch]
func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PlayerUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeletePlayer godoc
// @Summary Деактивировать игрока
// @Tags players
// @Param playerID path int true "Player ID"
// @Success 204
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Security BearerAuth
// @Router /players/{playerID} [delete]
func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.DeletePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Загрузить фото игрока
// @Tags players
// @Accept multipart/form-data
// @Produce json
// @Param playerID path int true "Player ID"
// @Param image formData file true "Изображение"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверный файл"
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /players/{playerID}/image [post]
func (h *PlayerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, err := readImage(w, r, "image")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	player, err := h.playerService.UploadImage(r.Context(), playerID, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AuctionPlayer godoc
// @Summary Продать игрока с открытого рынка
// @Tags auctions
// @Description Игрок переходит в случайную группу, способную заплатить не меньше 2/3 его стоимости.
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} map[string]interface{} "Результат аукциона"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Failure 409 {object} map[string]string "Нет подходящей группы"
// @Failure 422 {object} map[string]string "Игрок не на открытом рынке"
// @Security BearerAuth
// @Router /players/{playerID}/auction [post]
func (h *PlayerHandler) AuctionPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.auctionService.Auction(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
