package handlers

import (
	"net/http"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/services"
)

type AnnouncementHandler struct {
	announcementService services.AnnouncementService
}

func NewAnnouncementHandler(as services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: as}
}

type createAnnouncementRequest struct {
	Title    string                  `json:"title" validate:"required,max=200"`
	Content  string                  `json:"content" validate:"required,max=5000"`
	Type     models.AnnouncementType `json:"type" validate:"omitempty,oneof=announcement match_info image jersey"`
	ImageURL *string                 `json:"image_url" validate:"omitempty,url"`
	IsPinned bool                    `json:"is_pinned"`
}

type updateAnnouncementRequest struct {
	Title    *string                  `json:"title" validate:"omitempty,max=200"`
	Content  *string                  `json:"content" validate:"omitempty,max=5000"`
	Type     *models.AnnouncementType `json:"type" validate:"omitempty,oneof=announcement match_info image jersey"`
	ImageURL *string                  `json:"image_url" validate:"omitempty,url"`
	IsPinned *bool                    `json:"is_pinned"`
}

// List godoc
// @Summary Объявления турнира
// @Tags announcements
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Закреплённые первыми, затем новые"
// @Failure 403 {object} map[string]string "Нет доступа"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/announcements [get]
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	announcements, err := h.announcementService.List(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"announcements": announcements}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Опубликовать объявление
// @Tags announcements
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body createAnnouncementRequest true "Объявление"
// @Success 201 {object} map[string]interface{} "Объявление создано"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 422 {object} map[string]interface{} "Некорректные поля"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/announcements [post]
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createAnnouncementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	announcement, err := h.announcementService.Create(r.Context(), tournamentID, currentUserID, services.CreateAnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		ImageURL: req.ImageURL,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"announcement": announcement}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Изменить объявление
// @Tags announcements
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param announcementID path string true "Announcement ID"
// @Param body body updateAnnouncementRequest true "Изменяемые поля"
// @Success 200 {object} map[string]interface{} "Обновлённое объявление"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 404 {object} map[string]string "Объявление не найдено"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/announcements/{announcementID} [patch]
func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	announcementID, err := getIDFromURL(r, "announcementID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req updateAnnouncementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	announcement, err := h.announcementService.Update(r.Context(), tournamentID, announcementID, currentUserID, services.UpdateAnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		ImageURL: req.ImageURL,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"announcement": announcement}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Удалить объявление
// @Tags announcements
// @Param tournamentID path string true "Tournament ID"
// @Param announcementID path string true "Announcement ID"
// @Success 204 "Объявление удалено"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 404 {object} map[string]string "Объявление не найдено"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/announcements/{announcementID} [delete]
func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	announcementID, err := getIDFromURL(r, "announcementID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.announcementService.Delete(r.Context(), tournamentID, announcementID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
