package handlers

import (
	"net/http"

	"github.com/Dosada05/wrestling-league/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

func leaderboardLimit(r *http.Request) (int, error) {
	limit, err := queryInt(r, "limit")
	if err != nil || limit == nil {
		return 0, err
	}
	return *limit, nil
}

// TopPlayers godoc
// @Summary Самые дорогие игроки
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Размер (по умолчанию 10, максимум 100)"
// @Success 200 {object} map[string]interface{}
// @Router /leaderboard/players [get]
func (h *LeaderboardHandler) TopPlayers(w http.ResponseWriter, r *http.Request) {
	limit, err := leaderboardLimit(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.leaderboardService.TopPlayers(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TopBands godoc
// @Summary Самые богатые группы
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Размер (по умолчанию 10, максимум 100)"
// @Success 200 {object} map[string]interface{}
// @Router /leaderboard/bands [get]
func (h *LeaderboardHandler) TopBands(w http.ResponseWriter, r *http.Request) {
	limit, err := leaderboardLimit(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.leaderboardService.TopBands(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bands": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
