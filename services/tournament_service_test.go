package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

type tournamentFixture struct {
	guard         guardRepos
	teams         *mockTeamRepo
	announcements *mockAnnouncementRepo
	categories    *mockCategoryRepo
	tx            *fakeTxRunner
	svc           *tournamentService
}

func newTournamentFixture() *tournamentFixture {
	f := &tournamentFixture{
		guard:         newGuardRepos(),
		teams:         &mockTeamRepo{},
		announcements: &mockAnnouncementRepo{},
		categories:    &mockCategoryRepo{},
		tx:            &fakeTxRunner{},
	}
	f.svc = NewTournamentService(
		f.guard.tournaments, f.guard.admins, f.guard.players,
		f.teams, f.announcements, f.categories,
		f.tx, nil, discardLogger(),
	).(*tournamentService)
	return f
}

// sequenceCodes возвращает коды по очереди.
func sequenceCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestTournamentCreate_AddsCreatorAsAdminAndPlayer(t *testing.T) {
	f := newTournamentFixture()
	f.svc.generateCode = sequenceCodes("ABCD1234")

	f.guard.tournaments.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Tournament")).
		Run(func(args mock.Arguments) { args.Get(2).(*models.Tournament).ID = testTournamentID }).
		Return(nil).Once()
	f.guard.admins.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(a *models.TournamentAdmin) bool {
		return a.TournamentID == testTournamentID && a.UserID == testAdminID && a.Role == models.AdminRoleCreator
	})).Return(nil).Once()
	f.guard.players.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.TournamentPlayer) bool {
		return p.TournamentID == testTournamentID && p.UserID != nil && *p.UserID == testAdminID
	})).Return(nil).Once()

	created, err := f.svc.Create(context.Background(), testAdminID, CreateTournamentInput{
		Name:        "  Sunday League ",
		Description: strPtr("   "),
		MaxPlayers:  intPtr(20),
	})
	require.NoError(t, err)

	assert.Equal(t, "Sunday League", created.Name)
	assert.Equal(t, "ABCD1234", created.Code)
	assert.Nil(t, created.Description)
	assert.True(t, created.IsActive)
	assert.Equal(t, 1, f.tx.calls)
	f.guard.assertExpectations(t)
}

func TestTournamentCreate_RetriesOnCodeCollision(t *testing.T) {
	f := newTournamentFixture()
	f.svc.generateCode = sequenceCodes("TAKEN001", "FREE0002")

	f.guard.tournaments.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(tr *models.Tournament) bool {
		return tr.Code == "TAKEN001"
	})).Return(repositories.ErrTournamentCodeConflict).Once()
	f.guard.tournaments.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(tr *models.Tournament) bool {
		return tr.Code == "FREE0002"
	})).Run(func(args mock.Arguments) { args.Get(2).(*models.Tournament).ID = testTournamentID }).Return(nil).Once()
	f.guard.admins.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.guard.players.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	created, err := f.svc.Create(context.Background(), testAdminID, CreateTournamentInput{Name: "Cup"})
	require.NoError(t, err)

	assert.Equal(t, "FREE0002", created.Code)
	assert.Equal(t, 2, f.tx.calls)
	f.guard.assertExpectations(t)
}

func TestTournamentCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newTournamentFixture()
	f.svc.generateCode = sequenceCodes("SAMECODE")
	f.guard.tournaments.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repositories.ErrTournamentCodeConflict)

	_, err := f.svc.Create(context.Background(), testAdminID, CreateTournamentInput{Name: "Cup"})

	require.ErrorIs(t, err, ErrTournamentCodeConflict)
	assert.Equal(t, maxCodeAttempts, f.tx.calls)
}

func TestTournamentCreate_Validation(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)

	tests := []struct {
		name  string
		input CreateTournamentInput
		want  error
	}{
		{"blank name", CreateTournamentInput{Name: "  "}, ErrTournamentNameRequired},
		{"end before start", CreateTournamentInput{Name: "Cup", StartDate: &start, EndDate: &end}, ErrTournamentInvalidDateRange},
		{"zero capacity", CreateTournamentInput{Name: "Cup", MaxPlayers: intPtr(0)}, ErrTournamentInvalidCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTournamentFixture()
			_, err := f.svc.Create(context.Background(), testAdminID, tt.input)
			require.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestTournamentCreate_UnknownCreator(t *testing.T) {
	f := newTournamentFixture()
	f.svc.generateCode = sequenceCodes("ABCD1234")
	f.guard.tournaments.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repositories.ErrTournamentInvalidOwner)

	_, err := f.svc.Create(context.Background(), testOutsiderID, CreateTournamentInput{Name: "Cup"})

	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestTournamentJoin(t *testing.T) {
	active := func(maxPlayers *int) *models.Tournament {
		return &models.Tournament{ID: testTournamentID, Code: "ABCD1234", IsActive: true, MaxPlayers: maxPlayers}
	}

	tests := []struct {
		name  string
		code  string
		setup func(g guardRepos)
		want  error
	}{
		{
			name: "empty code",
			code: "   ",
			want: ErrTournamentCodeRequired,
		},
		{
			name: "unknown code",
			code: "nope",
			setup: func(g guardRepos) {
				g.tournaments.On("GetByCode", mock.Anything, "NOPE").Return(nil, repositories.ErrTournamentNotFound)
			},
			want: ErrTournamentNotFound,
		},
		{
			name: "inactive tournament",
			code: "abcd1234",
			setup: func(g guardRepos) {
				tr := active(nil)
				tr.IsActive = false
				g.tournaments.On("GetByCode", mock.Anything, "ABCD1234").Return(tr, nil)
			},
			want: ErrTournamentInactive,
		},
		{
			name: "already joined",
			code: "ABCD1234",
			setup: func(g guardRepos) {
				g.tournaments.On("GetByCode", mock.Anything, "ABCD1234").Return(active(nil), nil)
				g.isMember(testTournamentID, testOutsiderID)
			},
			want: ErrAlreadyJoined,
		},
		{
			name: "full tournament",
			code: "ABCD1234",
			setup: func(g guardRepos) {
				g.tournaments.On("GetByCode", mock.Anything, "ABCD1234").Return(active(intPtr(8)), nil)
				g.players.On("GetByTournamentAndUser", mock.Anything, testTournamentID, testOutsiderID).Return(nil, repositories.ErrPlayerNotFound)
				g.players.On("CountByTournament", mock.Anything, testTournamentID).Return(8, nil)
			},
			want: ErrTournamentFull,
		},
		{
			name: "join race lost to unique index",
			code: "ABCD1234",
			setup: func(g guardRepos) {
				g.tournaments.On("GetByCode", mock.Anything, "ABCD1234").Return(active(nil), nil)
				g.players.On("GetByTournamentAndUser", mock.Anything, testTournamentID, testOutsiderID).Return(nil, repositories.ErrPlayerNotFound)
				g.players.On("Create", mock.Anything, nil, mock.Anything).Return(repositories.ErrPlayerAlreadyJoined)
			},
			want: ErrAlreadyJoined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTournamentFixture()
			if tt.setup != nil {
				tt.setup(f.guard)
			}
			_, err := f.svc.Join(context.Background(), testOutsiderID, tt.code)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTournamentJoin_Success(t *testing.T) {
	f := newTournamentFixture()
	f.guard.tournaments.On("GetByCode", mock.Anything, "ABCD1234").
		Return(&models.Tournament{ID: testTournamentID, Code: "ABCD1234", IsActive: true, MaxPlayers: intPtr(8)}, nil)
	f.guard.players.On("GetByTournamentAndUser", mock.Anything, testTournamentID, testOutsiderID).Return(nil, repositories.ErrPlayerNotFound)
	f.guard.players.On("CountByTournament", mock.Anything, testTournamentID).Return(7, nil)
	f.guard.players.On("Create", mock.Anything, nil, mock.MatchedBy(func(p *models.TournamentPlayer) bool {
		return p.TournamentID == testTournamentID && *p.UserID == testOutsiderID
	})).Return(nil).Once()

	joined, err := f.svc.Join(context.Background(), testOutsiderID, " abcd1234 ")
	require.NoError(t, err)

	assert.Equal(t, testTournamentID, joined.ID)
	f.guard.assertExpectations(t)
}

func TestTournamentGetDetails(t *testing.T) {
	f := newTournamentFixture()
	f.guard.tournamentExists(&models.Tournament{ID: testTournamentID, Name: "Cup", IsActive: true})
	f.guard.isMember(testTournamentID, testAdminID)
	f.guard.admins.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.TournamentAdmin{
		{ID: "a1", TournamentID: testTournamentID, UserID: testAdminID, Role: models.AdminRoleCreator},
	}, nil)
	f.guard.players.On("ListByTournament", mock.Anything, testTournamentID).Return(makeRoster(2, nil, "p"), nil)
	f.teams.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.Team{{ID: "t1", Name: "Red"}}, nil)
	f.announcements.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.Announcement{}, nil)
	f.categories.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.PlayerCategory{}, nil)

	details, err := f.svc.GetDetails(context.Background(), testTournamentID, testAdminID)
	require.NoError(t, err)

	assert.True(t, details.IsAdmin)
	assert.Equal(t, testAdminID, details.CurrentUserID)
	assert.Len(t, details.Tournament.Players, 2)
	assert.Len(t, details.Tournament.Teams, 1)
}

func TestTournamentGetDetails_PropagatesLoadFailure(t *testing.T) {
	f := newTournamentFixture()
	f.guard.tournamentExists(&models.Tournament{ID: testTournamentID})
	f.guard.isMember(testTournamentID, testAdminID)
	loadErr := errors.New("boom")
	f.guard.admins.On("ListByTournament", mock.Anything, testTournamentID).Return(nil, loadErr)
	f.guard.players.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.TournamentPlayer{}, nil).Maybe()
	f.teams.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.Team{}, nil).Maybe()
	f.announcements.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.Announcement{}, nil).Maybe()
	f.categories.On("ListByTournament", mock.Anything, testTournamentID).Return([]models.PlayerCategory{}, nil).Maybe()

	_, err := f.svc.GetDetails(context.Background(), testTournamentID, testAdminID)

	require.ErrorIs(t, err, loadErr)
}

func TestTournamentGetDetails_NonMember(t *testing.T) {
	f := newTournamentFixture()
	f.guard.tournamentExists(&models.Tournament{ID: testTournamentID})
	f.guard.players.On("GetByTournamentAndUser", mock.Anything, testTournamentID, testOutsiderID).Return(nil, repositories.ErrPlayerNotFound)

	_, err := f.svc.GetDetails(context.Background(), testTournamentID, testOutsiderID)

	require.ErrorIs(t, err, ErrNotTournamentMember)
}

func TestTournamentUpdate_ChecksMergedDates(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	f := newTournamentFixture()
	f.guard.tournamentExists(&models.Tournament{ID: testTournamentID, Name: "Cup", StartDate: &start})
	f.guard.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)

	earlier := start.Add(-48 * time.Hour)
	_, err := f.svc.Update(context.Background(), testTournamentID, testAdminID, UpdateTournamentInput{EndDate: &earlier})

	require.ErrorIs(t, err, ErrTournamentInvalidDateRange)
	f.guard.tournaments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTournamentUpdate_Deactivates(t *testing.T) {
	f := newTournamentFixture()
	f.guard.tournamentExists(&models.Tournament{ID: testTournamentID, Name: "Cup", IsActive: true})
	f.guard.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	f.guard.tournaments.On("Update", mock.Anything, mock.MatchedBy(func(tr *models.Tournament) bool {
		return !tr.IsActive && tr.Name == "Final Cup"
	})).Return(nil).Once()

	inactive := false
	updated, err := f.svc.Update(context.Background(), testTournamentID, testAdminID, UpdateTournamentInput{
		Name:     strPtr("Final Cup"),
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.False(t, updated.IsActive)
	f.guard.tournaments.AssertExpectations(t)
}
