package handlers

import (
	"net/http"

	"github.com/Dosada05/wrestling-league/services"
)

type AuctionHandler struct {
	auctionService services.AuctionService
}

func NewAuctionHandler(as services.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: as}
}

// ListAuctions godoc
// @Summary История аукционов
// @Tags auctions
// @Produce json
// @Param player_id query int false "Игрок"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]interface{}
// @Router /auctions [get]
func (h *AuctionHandler) ListAuctions(w http.ResponseWriter, r *http.Request) {
	playerID, err := queryInt(r, "player_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	auctions, err := h.auctionService.ListAuctions(r.Context(), playerID, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"auctions": auctions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RunOpenMarket godoc
// @Summary Продать всех игроков открытого рынка
// @Tags auctions
// @Produce json
// @Success 200 {object} map[string]interface{} "Отчет по аукционам"
// @Failure 503 {object} map[string]string "Открытый рынок не настроен"
// @Security BearerAuth
// @Router /auctions/open-market [post]
func (h *AuctionHandler) RunOpenMarket(w http.ResponseWriter, r *http.Request) {
	report, err := h.auctionService.RunOpenMarket(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
