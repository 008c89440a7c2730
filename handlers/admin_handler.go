package handlers

import (
	"net/http"

	"github.com/playday/tournament-organizer/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(as services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: as}
}

type addAdminRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// List godoc
// @Summary Администраторы турнира
// @Tags admins
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Список администраторов"
// @Failure 403 {object} map[string]string "Нет доступа"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/admins [get]
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	admins, err := h.adminService.List(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"admins": admins}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Add godoc
// @Summary Назначить администратора
// @Tags admins
// @Description Назначать может только создатель. Пользователь должен быть игроком турнира.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body addAdminRequest true "ID пользователя"
// @Success 201 {object} map[string]interface{} "Администратор добавлен"
// @Failure 400 {object} map[string]string "Пользователь не игрок турнира"
// @Failure 403 {object} map[string]string "Только создатель"
// @Failure 409 {object} map[string]string "Уже администратор"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/admins [post]
func (h *AdminHandler) Add(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req addAdminRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, err := h.adminService.Add(r.Context(), tournamentID, currentUserID, req.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"admin": admin}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Remove godoc
// @Summary Снять администратора
// @Tags admins
// @Param tournamentID path string true "Tournament ID"
// @Param adminID path string true "Admin ID"
// @Success 204 "Администратор снят"
// @Failure 400 {object} map[string]string "Нельзя снять создателя"
// @Failure 403 {object} map[string]string "Только создатель"
// @Failure 404 {object} map[string]string "Администратор не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/admins/{adminID} [delete]
func (h *AdminHandler) Remove(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	adminID, err := getIDFromURL(r, "adminID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.adminService.Remove(r.Context(), tournamentID, adminID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
