package handlers

import (
	"net/http"
	"time"

	"github.com/playday/tournament-organizer/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

type createTournamentRequest struct {
	Name        string     `json:"name" validate:"required,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MaxPlayers  *int       `json:"max_players" validate:"omitempty,gt=0"`
}

type updateTournamentRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MaxPlayers  *int       `json:"max_players" validate:"omitempty,gt=0"`
	IsActive    *bool      `json:"is_active"`
}

type joinTournamentRequest struct {
	Code string `json:"code" validate:"required,max=16"`
}

// Create godoc
// @Summary Создать турнир
// @Tags tournaments
// @Description Создатель становится администратором и первым игроком турнира. Код приглашения генерируется автоматически.
// @Accept json
// @Produce json
// @Param body body createTournamentRequest true "Данные турнира"
// @Success 201 {object} map[string]interface{} "Турнир создан"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 422 {object} map[string]interface{} "Некорректные поля"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createTournamentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), currentUserID, services.CreateTournamentInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MaxPlayers:  req.MaxPlayers,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMine godoc
// @Summary Мои турниры
// @Tags tournaments
// @Description Возвращает созданные пользователем турниры и активные турниры, в которые он вступил.
// @Produce json
// @Success 200 {object} services.UserTournaments
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /tournaments [get]
func (h *TournamentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.tournamentService.ListForUser(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Join godoc
// @Summary Вступить в турнир по коду
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body joinTournamentRequest true "Код приглашения"
// @Success 200 {object} map[string]interface{} "Игрок добавлен"
// @Failure 400 {object} map[string]string "Турнир неактивен или заполнен"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 409 {object} map[string]string "Уже в турнире"
// @Security BearerAuth
// @Router /tournaments/join [post]
func (h *TournamentHandler) Join(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req joinTournamentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tournament, err := h.tournamentService.Join(r.Context(), currentUserID, req.Code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":    true,
		"tournament": tournament,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetDetails godoc
// @Summary Получить турнир со всеми связанными данными
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} services.TournamentDetails
// @Failure 400 {object} map[string]string "Некорректный ID"
// @Failure 403 {object} map[string]string "Нет доступа"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	details, err := h.tournamentService.GetDetails(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, details, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Обновить турнир
// @Tags tournaments
// @Description Частичное обновление, отсутствующие поля не меняются. Только для администраторов.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body updateTournamentRequest true "Изменяемые поля"
// @Success 200 {object} map[string]interface{} "Обновлённый турнир"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [patch]
func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req updateTournamentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tournament, err := h.tournamentService.Update(r.Context(), tournamentID, currentUserID, services.UpdateTournamentInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MaxPlayers:  req.MaxPlayers,
		IsActive:    req.IsActive,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadLogo godoc
// @Summary Загрузить логотип турнира
// @Tags tournaments
// @Accept multipart/form-data
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param logo formData file true "Файл логотипа"
// @Success 200 {object} map[string]interface{} "Турнир с новым логотипом"
// @Failure 400 {object} map[string]string "Некорректный файл"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 415 {object} map[string]string "Неподдерживаемый тип файла"
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/logo [post]
func (h *TournamentHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
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

	tournament, err := h.tournamentService.UploadLogo(r.Context(), tournamentID, currentUserID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
