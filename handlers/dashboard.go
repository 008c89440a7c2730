package handlers

import (
	"net/http"

	"github.com/playday/tournament-organizer/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: s}
}

// Stats godoc
// @Summary Статистика пользователя
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	stats, err := h.dashboardService.GetStats(r.Context(), currentUserID)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
