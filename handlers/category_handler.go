package handlers

import (
	"net/http"

	"github.com/playday/tournament-organizer/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(cs services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: cs}
}

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=60"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	MinPerTeam  int     `json:"min_per_team" validate:"gte=0"`
	MaxPerTeam  *int    `json:"max_per_team" validate:"omitempty,gte=0"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
}

// List godoc
// @Summary Категории игроков
// @Tags categories
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Категории по имени"
// @Failure 403 {object} map[string]string "Нет доступа"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	categories, err := h.categoryService.List(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"categories": categories}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Создать категорию
// @Tags categories
// @Description min_per_team используется как минимум на команду при генерации с use_categories.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body createCategoryRequest true "Категория"
// @Success 201 {object} map[string]interface{} "Категория создана"
// @Failure 400 {object} map[string]string "max_per_team меньше min_per_team"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 409 {object} map[string]string "Категория с таким именем уже есть"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), tournamentID, currentUserID, services.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		MinPerTeam:  req.MinPerTeam,
		MaxPerTeam:  req.MaxPerTeam,
		Color:       req.Color,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"category": category}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Удалить категорию
// @Tags categories
// @Param tournamentID path string true "Tournament ID"
// @Param categoryID path string true "Category ID"
// @Success 204 "Категория удалена"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 404 {object} map[string]string "Категория не найдена"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/categories/{categoryID} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), tournamentID, categoryID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Rules godoc
// @Summary Правила распределения по категориям
// @Tags categories
// @Description Показывает, какие минимумы применятся при генерации команд без явных category_rules.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "category_rules"
// @Failure 403 {object} map[string]string "Нет доступа"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/categories/rules [get]
func (h *CategoryHandler) Rules(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	rules, err := h.categoryService.Rules(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"category_rules": rules}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
