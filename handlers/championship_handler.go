package handlers

import (
	"net/http"

	"github.com/Dosada05/wrestling-league/services"
)

type ChampionshipHandler struct {
	championshipService services.ChampionshipService
}

func NewChampionshipHandler(cs services.ChampionshipService) *ChampionshipHandler {
	return &ChampionshipHandler{championshipService: cs}
}

// CreateChampionship godoc
// @Summary Создать титул
// @Tags championships
// @Accept json
// @Produce json
// @Param championship body services.ChampionshipInput true "Титул"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 409 {object} map[string]string "Имя занято"
// @Security BearerAuth
// @Router /championships [post]
func (h *ChampionshipHandler) CreateChampionship(w http.ResponseWriter, r *http.Request) {
	var input services.ChampionshipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, err := h.championshipService.CreateChampionship(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) GetChampionship(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, err := h.championshipService.GetChampionship(r.Context(), championshipID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) ListChampionships(w http.ResponseWriter, r *http.Request) {
	championships, err := h.championshipService.ListChampionships(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championships": championships}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateChampionship godoc
// @Summary Изменить титул или его обладателя
// @Tags championships
// @Description Смена обладателя закрывает текущее правление и открывает новое.
// @Accept json
// @Produce json
// @Param championshipID path int true "Championship ID"
// @Param championship body services.ChampionshipUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Титул или игрок не найден"
// @Security BearerAuth
// @Router /championships/{championshipID} [patch]
func (h *ChampionshipHandler) UpdateChampionship(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ChampionshipUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, change, err := h.championshipService.UpdateChampionship(r.Context(), championshipID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"championship": championship}
	if change != nil {
		response["reign_change"] = change
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.championshipService.GetHistory(r.Context(), championshipID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
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

	championship, err := h.championshipService.UploadImage(r.Context(), championshipID, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
