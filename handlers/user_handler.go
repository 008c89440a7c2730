package handlers

import (
	"net/http"

	"github.com/playday/tournament-organizer/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{
		userService: us,
	}
}

// GetMe godoc
// @Summary Профиль текущего пользователя
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{} "user"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 404 {object} map[string]string "Пользователь не найден"
// @Security BearerAuth
// @Router /me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, currentUserID)
}

// GetUserByID godoc
// @Summary Публичный профиль пользователя
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} map[string]interface{} "user"
// @Failure 404 {object} map[string]string "Пользователь не найден"
// @Security BearerAuth
// @Router /users/{userID} [get]
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	requestedUserID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.writeProfile(w, r, requestedUserID)
}

func (h *UserHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"user": user,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
