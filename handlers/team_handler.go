package handlers

import (
	"net/http"

	"github.com/playday/tournament-organizer/distributor"
	"github.com/playday/tournament-organizer/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// generateTeamsRequest: number_of_teams проверяется сервисом (ErrInvalidTeamCount -> 400).
type generateTeamsRequest struct {
	NumberOfTeams    int                       `json:"number_of_teams"`
	TeamNames        []string                  `json:"team_names" validate:"omitempty,max=64,dive,max=60"`
	UseCategories    bool                      `json:"use_categories"`
	CategoryRules    distributor.CategoryRules `json:"category_rules"`
	StrictCategories bool                      `json:"strict_categories"`
}

type createTeamRequest struct {
	Name      string   `json:"name" validate:"required,max=60"`
	Color     *string  `json:"color" validate:"omitempty,max=32"`
	PlayerIDs []string `json:"player_ids" validate:"omitempty,dive,uuid"`
}

// Generate godoc
// @Summary Сгенерировать команды
// @Tags teams
// @Description Удаляет текущие команды турнира и случайно распределяет весь ростер на number_of_teams команд.
// @Description При use_categories=true каждая команда сначала получает минимум игроков каждой категории.
// @Description Если игроков категории не хватает, первые команды получают квоту, а в ответе возвращаются shortfalls.
// @Description strict_categories=true в этом случае отклоняет запрос с 422.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body generateTeamsRequest true "Параметры генерации"
// @Success 200 {object} services.GenerateTeamsResult
// @Failure 400 {object} map[string]string "Меньше 2 команд или игроков меньше, чем команд"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 422 {object} map[string]string "Некорректные правила категорий"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [put]
func (h *TeamHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req generateTeamsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.teamService.GenerateTeams(r.Context(), tournamentID, currentUserID, services.GenerateTeamsInput{
		NumberOfTeams:    req.NumberOfTeams,
		TeamNames:        req.TeamNames,
		UseCategories:    req.UseCategories,
		CategoryRules:    req.CategoryRules,
		StrictCategories: req.StrictCategories,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Создать команду вручную
// @Tags teams
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body createTeamRequest true "Название, цвет и игроки"
// @Success 201 {object} map[string]interface{} "Команда создана"
// @Failure 400 {object} map[string]string "Игрок не из этого турнира"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 422 {object} map[string]interface{} "Некорректные поля"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createTeamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), tournamentID, currentUserID, services.CreateTeamInput{
		Name:      req.Name,
		Color:     req.Color,
		PlayerIDs: req.PlayerIDs,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary Список команд турнира
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Команды с составами"
// @Failure 403 {object} map[string]string "Нет доступа"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [get]
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	teams, err := h.teamService.ListTeams(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Удалить команду
// @Tags teams
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Success 204 "Команда удалена"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 404 {object} map[string]string "Команда не найдена"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID} [delete]
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), tournamentID, teamID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo godoc
// @Summary Загрузить логотип команды
// @Tags teams
// @Accept multipart/form-data
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Param logo formData file true "Файл логотипа"
// @Success 200 {object} map[string]interface{} "Команда с новым логотипом"
// @Failure 400 {object} map[string]string "Некорректный файл"
// @Failure 403 {object} map[string]string "Нет прав администратора"
// @Failure 404 {object} map[string]string "Команда не найдена"
// @Failure 415 {object} map[string]string "Неподдерживаемый тип файла"
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID}/logo [post]
func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	file, contentType, ok := readLogoFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	team, err := h.teamService.UploadTeamLogo(r.Context(), tournamentID, teamID, currentUserID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
