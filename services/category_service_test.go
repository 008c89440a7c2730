package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/playday/tournament-organizer/distributor"
	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

func newCategoryFixture() (guardRepos, *mockCategoryRepo, CategoryService) {
	g := newGuardRepos()
	categories := &mockCategoryRepo{}
	g.tournamentExists(&models.Tournament{ID: testTournamentID})
	return g, categories, NewCategoryService(g.tournaments, g.admins, g.players, categories)
}

func TestCategoryCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateCategoryInput
		want  error
	}{
		{"blank name", CreateCategoryInput{Name: " "}, ErrCategoryNameRequired},
		{"negative minimum", CreateCategoryInput{Name: "Bowler", MinPerTeam: -1}, ErrInvalidCategoryRule},
		{"max below min", CreateCategoryInput{Name: "Bowler", MinPerTeam: 2, MaxPerTeam: intPtr(1)}, ErrCategoryInvalidBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, categories, svc := newCategoryFixture()
			g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)

			_, err := svc.Create(context.Background(), testTournamentID, testAdminID, tt.input)

			require.ErrorIs(t, err, tt.want)
			categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCategoryCreate_NameConflict(t *testing.T) {
	g, categories, svc := newCategoryFixture()
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	categories.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrCategoryNameConflict)

	_, err := svc.Create(context.Background(), testTournamentID, testAdminID, CreateCategoryInput{Name: "Bowler", MinPerTeam: 1})

	require.ErrorIs(t, err, ErrCategoryNameConflict)
}

func TestCategoryRules_MapsMinimums(t *testing.T) {
	g, categories, svc := newCategoryFixture()
	g.isMember(testTournamentID, testAdminID)
	categories.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.PlayerCategory{
		{Name: "Bowler", MinPerTeam: 2},
		{Name: "Keeper", MinPerTeam: 1},
		{Name: "Batter", MinPerTeam: 0},
	}, nil)

	rules, err := svc.Rules(context.Background(), testTournamentID, testAdminID)
	require.NoError(t, err)

	assert.Equal(t, distributor.CategoryRules{
		"Bowler": {Min: 2},
		"Keeper": {Min: 1},
		"Batter": {Min: 0},
	}, rules)
}

func TestCategoryRules_RequiresMembership(t *testing.T) {
	g, categories, svc := newCategoryFixture()
	g.players.On("GetByTournamentAndUser", mock.Anything, testTournamentID, testOutsiderID).Return(nil, repositories.ErrPlayerNotFound)

	_, err := svc.Rules(context.Background(), testTournamentID, testOutsiderID)

	require.ErrorIs(t, err, ErrNotTournamentMember)
	categories.AssertNotCalled(t, "ListByTournament", mock.Anything, mock.Anything)
}

func TestCategoryDelete_OtherTournament(t *testing.T) {
	g, categories, svc := newCategoryFixture()
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	categories.On("GetByID", mock.Anything, "cat-1").Return(&models.PlayerCategory{ID: "cat-1", TournamentID: "other"}, nil)

	err := svc.Delete(context.Background(), testTournamentID, "cat-1", testAdminID)

	require.ErrorIs(t, err, ErrCategoryNotFound)
	categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func newAnnouncementFixture() (guardRepos, *mockAnnouncementRepo, AnnouncementService) {
	g := newGuardRepos()
	announcements := &mockAnnouncementRepo{}
	g.tournamentExists(&models.Tournament{ID: testTournamentID})
	return g, announcements, NewAnnouncementService(g.tournaments, g.admins, g.players, announcements)
}

func TestAnnouncementCreate_DefaultsType(t *testing.T) {
	g, announcements, svc := newAnnouncementFixture()
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	announcements.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Announcement) bool {
		return a.Type == models.AnnouncementGeneral && a.AuthorID == testAdminID
	})).Return(nil).Once()

	a, err := svc.Create(context.Background(), testTournamentID, testAdminID, CreateAnnouncementInput{
		Title:   " Kick-off ",
		Content: "Ground 2 at 9am",
	})
	require.NoError(t, err)

	assert.Equal(t, "Kick-off", a.Title)
	announcements.AssertExpectations(t)
}

func TestAnnouncementCreate_RejectsUnknownType(t *testing.T) {
	g, _, svc := newAnnouncementFixture()
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)

	_, err := svc.Create(context.Background(), testTournamentID, testAdminID, CreateAnnouncementInput{
		Title: "x", Content: "y", Type: "poll",
	})

	require.ErrorIs(t, err, ErrInvalidAnnouncementType)
}

func TestAnnouncementUpdate_PinsExisting(t *testing.T) {
	g, announcements, svc := newAnnouncementFixture()
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	announcements.On("GetByID", mock.Anything, "ann-1").Return(&models.Announcement{
		ID: "ann-1", TournamentID: testTournamentID, Title: "Old", Content: "Body", Type: models.AnnouncementGeneral,
	}, nil)
	announcements.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Announcement) bool {
		return a.IsPinned && a.Title == "Old"
	})).Return(nil).Once()

	pinned := true
	a, err := svc.Update(context.Background(), testTournamentID, "ann-1", testAdminID, UpdateAnnouncementInput{IsPinned: &pinned})
	require.NoError(t, err)

	assert.True(t, a.IsPinned)
	announcements.AssertExpectations(t)
}

func TestAnnouncementList_NonMember(t *testing.T) {
	g, _, svc := newAnnouncementFixture()
	g.players.On("GetByTournamentAndUser", mock.Anything, testTournamentID, testOutsiderID).Return(nil, repositories.ErrPlayerNotFound)

	_, err := svc.List(context.Background(), testTournamentID, testOutsiderID)

	require.ErrorIs(t, err, ErrNotTournamentMember)
}
