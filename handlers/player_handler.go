package handlers

import (
	"net/http"

	"github.com/playday/tournament-organizer/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: ps}
}

// updateCategoryRequest: null или пустая строка снимают категорию.
type updateCategoryRequest struct {
	Category *string `json:"category" validate:"omitempty,max=60"`
}

type addGuestRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Category *string `json:"category" validate:"omitempty,max=60"`
}

// List godoc
// @Summary Ростер турнира
// @Tags players
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Игроки в порядке вступления"
// @Failure 403 {object} map[string]string "Нет доступа"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/players [get]
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	players, err := h.playerService.List(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddGuest godoc
// @Summary Добавить игрока без аккаунта
// @Tags players
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body addGuestRequest true "Имя, телефон и категория"
// @Success 201 {object} map[string]interface{} "Игрок добавлен"
// @Failure 400 {object} map[string]string "Турнир заполнен"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/players [post]
func (h *PlayerHandler) AddGuest(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req addGuestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	player, err := h.playerService.AddGuest(r.Context(), tournamentID, currentUserID, services.AddGuestInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Category: req.Category,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateCategory godoc
// @Summary Изменить категорию игрока
// @Tags players
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param playerID path string true "Player ID"
// @Param body body updateCategoryRequest true "Новая категория или null"
// @Success 200 {object} map[string]interface{} "Обновлённый игрок"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/players/{playerID} [patch]
func (h *PlayerHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req updateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	player, err := h.playerService.UpdateCategory(r.Context(), tournamentID, playerID, currentUserID, req.Category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Remove godoc
// @Summary Удалить игрока из турнира
// @Tags players
// @Description Игрок удаляется из всех команд и теряет роль администратора. Создателя удалить нельзя.
// @Param tournamentID path string true "Tournament ID"
// @Param playerID path string true "Player ID"
// @Success 204 "Игрок удалён"
// @Failure 400 {object} map[string]string "Нельзя удалить создателя"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/players/{playerID} [delete]
func (h *PlayerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.playerService.Remove(r.Context(), tournamentID, playerID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
