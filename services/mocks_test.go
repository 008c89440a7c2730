package services

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
	"github.com/playday/tournament-organizer/storage"
)

// --- tournaments ---

type mockTournamentRepo struct{ mock.Mock }

func (m *mockTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	return m.Called(ctx, exec, t).Error(0)
}

func (m *mockTournamentRepo) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *mockTournamentRepo) GetByCode(ctx context.Context, code string) (*models.Tournament, error) {
	args := m.Called(ctx, code)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *mockTournamentRepo) ListByCreator(ctx context.Context, userID string) ([]models.Tournament, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.Tournament)
	return list, args.Error(1)
}

func (m *mockTournamentRepo) ListJoined(ctx context.Context, userID string) ([]models.Tournament, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.Tournament)
	return list, args.Error(1)
}

func (m *mockTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTournamentRepo) UpdateLogoKey(ctx context.Context, tournamentID string, logoKey *string) error {
	return m.Called(ctx, tournamentID, logoKey).Error(0)
}

func (m *mockTournamentRepo) GetUserStats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*models.DashboardStats)
	return s, args.Error(1)
}

// --- admins ---

type mockAdminRepo struct{ mock.Mock }

func (m *mockAdminRepo) Create(ctx context.Context, exec repositories.SQLExecutor, a *models.TournamentAdmin) error {
	return m.Called(ctx, exec, a).Error(0)
}

func (m *mockAdminRepo) GetByID(ctx context.Context, id string) (*models.TournamentAdmin, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.TournamentAdmin)
	return a, args.Error(1)
}

func (m *mockAdminRepo) GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (*models.TournamentAdmin, error) {
	args := m.Called(ctx, tournamentID, userID)
	a, _ := args.Get(0).(*models.TournamentAdmin)
	return a, args.Error(1)
}

func (m *mockAdminRepo) ListByTournament(ctx context.Context, tournamentID string) ([]models.TournamentAdmin, error) {
	args := m.Called(ctx, tournamentID)
	list, _ := args.Get(0).([]models.TournamentAdmin)
	return list, args.Error(1)
}

func (m *mockAdminRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAdminRepo) DeleteByUser(ctx context.Context, exec repositories.SQLExecutor, tournamentID, userID string) error {
	return m.Called(ctx, exec, tournamentID, userID).Error(0)
}

// --- players ---

type mockPlayerRepo struct{ mock.Mock }

func (m *mockPlayerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.TournamentPlayer) error {
	return m.Called(ctx, exec, p).Error(0)
}

func (m *mockPlayerRepo) GetByID(ctx context.Context, id string) (*models.TournamentPlayer, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.TournamentPlayer)
	return p, args.Error(1)
}

func (m *mockPlayerRepo) GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (*models.TournamentPlayer, error) {
	args := m.Called(ctx, tournamentID, userID)
	p, _ := args.Get(0).(*models.TournamentPlayer)
	return p, args.Error(1)
}

func (m *mockPlayerRepo) ListByTournament(ctx context.Context, tournamentID string) ([]models.TournamentPlayer, error) {
	args := m.Called(ctx, tournamentID)
	list, _ := args.Get(0).([]models.TournamentPlayer)
	return list, args.Error(1)
}

func (m *mockPlayerRepo) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	args := m.Called(ctx, tournamentID)
	return args.Int(0), args.Error(1)
}

func (m *mockPlayerRepo) UpdateCategory(ctx context.Context, id string, category *string) (*models.TournamentPlayer, error) {
	args := m.Called(ctx, id, category)
	p, _ := args.Get(0).(*models.TournamentPlayer)
	return p, args.Error(1)
}

func (m *mockPlayerRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id string) error {
	return m.Called(ctx, exec, id).Error(0)
}

// --- teams ---

type mockTeamRepo struct{ mock.Mock }

func (m *mockTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	return m.Called(ctx, exec, team).Error(0)
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id string) (*models.Team, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Team)
	return t, args.Error(1)
}

func (m *mockTeamRepo) ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	args := m.Called(ctx, tournamentID)
	list, _ := args.Get(0).([]models.Team)
	return list, args.Error(1)
}

func (m *mockTeamRepo) AddMembers(ctx context.Context, exec repositories.SQLExecutor, teamID string, playerIDs []string) ([]models.TeamMember, error) {
	args := m.Called(ctx, exec, teamID, playerIDs)
	list, _ := args.Get(0).([]models.TeamMember)
	return list, args.Error(1)
}

func (m *mockTeamRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID string) (int64, error) {
	args := m.Called(ctx, exec, tournamentID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *mockTeamRepo) DeleteMembershipsByPlayer(ctx context.Context, exec repositories.SQLExecutor, playerID string) error {
	return m.Called(ctx, exec, playerID).Error(0)
}

func (m *mockTeamRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTeamRepo) UpdateLogoKey(ctx context.Context, teamID string, logoKey *string) error {
	return m.Called(ctx, teamID, logoKey).Error(0)
}

// --- categories ---

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(ctx context.Context, c *models.PlayerCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*models.PlayerCategory, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.PlayerCategory)
	return c, args.Error(1)
}

func (m *mockCategoryRepo) ListByTournament(ctx context.Context, tournamentID string) ([]models.PlayerCategory, error) {
	args := m.Called(ctx, tournamentID)
	list, _ := args.Get(0).([]models.PlayerCategory)
	return list, args.Error(1)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- announcements ---

type mockAnnouncementRepo struct{ mock.Mock }

func (m *mockAnnouncementRepo) Create(ctx context.Context, a *models.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAnnouncementRepo) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Announcement)
	return a, args.Error(1)
}

func (m *mockAnnouncementRepo) ListByTournament(ctx context.Context, tournamentID string) ([]models.Announcement, error) {
	args := m.Called(ctx, tournamentID)
	list, _ := args.Get(0).([]models.Announcement)
	return list, args.Error(1)
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, a *models.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- users ---

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

// --- storage ---

type mockUploader struct{ mock.Mock }

func (m *mockUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, contentType, reader)
	r, _ := args.Get(0).(*storage.UploadResult)
	return r, args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockUploader) GetPublicURL(key string) string {
	return m.Called(key).String(0)
}

// fakeTxRunner выполняет fn без реальной транзакции и считает вызовы.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

// guardRepos - набор моков, которые нужны accessGuard.
type guardRepos struct {
	tournaments *mockTournamentRepo
	admins      *mockAdminRepo
	players     *mockPlayerRepo
}

func newGuardRepos() guardRepos {
	return guardRepos{
		tournaments: &mockTournamentRepo{},
		admins:      &mockAdminRepo{},
		players:     &mockPlayerRepo{},
	}
}

func (g guardRepos) tournamentExists(t *models.Tournament) {
	g.tournaments.On("GetByID", mock.Anything, t.ID).Return(t, nil)
}

func (g guardRepos) isAdmin(tournamentID, userID string, role models.AdminRole) {
	g.admins.On("GetByTournamentAndUser", mock.Anything, tournamentID, userID).
		Return(&models.TournamentAdmin{ID: "admin-" + userID, TournamentID: tournamentID, UserID: userID, Role: role}, nil)
}

func (g guardRepos) isNotAdmin(tournamentID, userID string) {
	g.admins.On("GetByTournamentAndUser", mock.Anything, tournamentID, userID).
		Return(nil, repositories.ErrAdminNotFound)
}

func (g guardRepos) isMember(tournamentID, userID string) {
	uid := userID
	g.players.On("GetByTournamentAndUser", mock.Anything, tournamentID, userID).
		Return(&models.TournamentPlayer{ID: "player-" + userID, TournamentID: tournamentID, UserID: &uid}, nil)
}

func (g guardRepos) assertExpectations(t mock.TestingT) {
	g.tournaments.AssertExpectations(t)
	g.admins.AssertExpectations(t)
	g.players.AssertExpectations(t)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
