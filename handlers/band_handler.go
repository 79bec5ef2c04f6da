package handlers

import (
	"net/http"

	"github.com/Dosada05/wrestling-league/services"
)

type BandHandler struct {
	bandService services.BandService
}

func NewBandHandler(bs services.BandService) *BandHandler {
	return &BandHandler{bandService: bs}
}

// CreateBand godoc
// @Summary Создать группу
// @Tags bands
// @Accept json
// @Produce json
// @Param band body services.BandInput true "Группа"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Имя занято"
// @Security BearerAuth
// @Router /bands [post]
func (h *BandHandler) CreateBand(w http.ResponseWriter, r *http.Request) {
	var input services.BandInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	band, err := h.bandService.CreateBand(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"band": band}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBand godoc
// @Summary Группа с участниками и статистикой
// @Tags bands
// @Produce json
// @Param bandID path int true "Band ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /bands/{bandID} [get]
func (h *BandHandler) GetBand(w http.ResponseWriter, r *http.Request) {
	bandID, err := getIDFromURL(r, "bandID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	band, err := h.bandService.GetBandDetails(r.Context(), bandID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"band": band}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BandHandler) ListBands(w http.ResponseWriter, r *http.Request) {
	bands, err := h.bandService.ListBands(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bands": bands}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BandHandler) UpdateBand(w http.ResponseWriter, r *http.Request) {
	bandID, err := getIDFromURL(r, "bandID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.BandUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	band, err := h.bandService.UpdateBand(r.Context(), bandID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"band": band}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteBand удаляет только пустую группу, иначе 409.
func (h *BandHandler) DeleteBand(w http.ResponseWriter, r *http.Request) {
	bandID, err := getIDFromURL(r, "bandID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bandService.DeleteBand(r.Context(), bandID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BandHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	bandID, err := getIDFromURL(r, "bandID")
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

	band, err := h.bandService.UploadImage(r.Context(), bandID, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"band": band}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
