package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

const testPlayerUserID = "55555555-5555-5555-5555-555555555555"

func newPlayerFixture() (guardRepos, *mockTeamRepo, *fakeTxRunner, PlayerService) {
	g := newGuardRepos()
	teams := &mockTeamRepo{}
	tx := &fakeTxRunner{}
	svc := NewPlayerService(g.tournaments, g.admins, g.players, teams, tx, discardLogger())
	return g, teams, tx, svc
}

func TestPlayerRemove_ProtectsCreator(t *testing.T) {
	g, _, tx, svc := newPlayerFixture()
	g.tournamentExists(&models.Tournament{ID: testTournamentID})
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	g.players.On("GetByID", mock.Anything, "p-creator").Return(&models.TournamentPlayer{
		ID: "p-creator", TournamentID: testTournamentID, UserID: strPtr(testPlayerUserID),
	}, nil)
	g.isAdmin(testTournamentID, testPlayerUserID, models.AdminRoleCreator)

	err := svc.Remove(context.Background(), testTournamentID, "p-creator", testAdminID)

	require.ErrorIs(t, err, ErrCannotRemoveCreator)
	assert.Zero(t, tx.calls)
}

func TestPlayerRemove_DropsMembershipsAndAdminRights(t *testing.T) {
	g, teams, tx, svc := newPlayerFixture()
	g.tournamentExists(&models.Tournament{ID: testTournamentID})
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleCreator)
	g.players.On("GetByID", mock.Anything, "p-1").Return(&models.TournamentPlayer{
		ID: "p-1", TournamentID: testTournamentID, UserID: strPtr(testPlayerUserID),
	}, nil)
	g.isAdmin(testTournamentID, testPlayerUserID, models.AdminRoleAdmin)
	teams.On("DeleteMembershipsByPlayer", mock.Anything, mock.Anything, "p-1").Return(nil).Once()
	g.admins.On("DeleteByUser", mock.Anything, mock.Anything, testTournamentID, testPlayerUserID).Return(nil).Once()
	g.players.On("Delete", mock.Anything, mock.Anything, "p-1").Return(nil).Once()

	err := svc.Remove(context.Background(), testTournamentID, "p-1", testAdminID)
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	teams.AssertExpectations(t)
	g.assertExpectations(t)
}

func TestPlayerRemove_GuestSkipsAdminCleanup(t *testing.T) {
	g, teams, tx, svc := newPlayerFixture()
	g.tournamentExists(&models.Tournament{ID: testTournamentID})
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	g.players.On("GetByID", mock.Anything, "guest-1").Return(&models.TournamentPlayer{
		ID: "guest-1", TournamentID: testTournamentID, Name: strPtr("Ravi"),
	}, nil)
	teams.On("DeleteMembershipsByPlayer", mock.Anything, mock.Anything, "guest-1").Return(nil)
	g.players.On("Delete", mock.Anything, mock.Anything, "guest-1").Return(nil)

	require.NoError(t, svc.Remove(context.Background(), testTournamentID, "guest-1", testAdminID))

	assert.Equal(t, 1, tx.calls)
	g.admins.AssertNotCalled(t, "DeleteByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlayerRemove_PlayerFromOtherTournament(t *testing.T) {
	g, _, _, svc := newPlayerFixture()
	g.tournamentExists(&models.Tournament{ID: testTournamentID})
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	g.players.On("GetByID", mock.Anything, "p-9").Return(&models.TournamentPlayer{ID: "p-9", TournamentID: "other"}, nil)

	err := svc.Remove(context.Background(), testTournamentID, "p-9", testAdminID)

	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerUpdateCategory_BlankClearsCategory(t *testing.T) {
	g, _, _, svc := newPlayerFixture()
	g.tournamentExists(&models.Tournament{ID: testTournamentID})
	g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
	g.players.On("GetByID", mock.Anything, "p-1").Return(&models.TournamentPlayer{ID: "p-1", TournamentID: testTournamentID}, nil)
	g.players.On("UpdateCategory", mock.Anything, "p-1", (*string)(nil)).
		Return(&models.TournamentPlayer{ID: "p-1", TournamentID: testTournamentID}, nil).Once()

	updated, err := svc.UpdateCategory(context.Background(), testTournamentID, "p-1", testAdminID, strPtr("  "))
	require.NoError(t, err)

	assert.Nil(t, updated.Category)
	g.players.AssertExpectations(t)
}

func TestPlayerAddGuest(t *testing.T) {
	t.Run("respects capacity", func(t *testing.T) {
		g, _, _, svc := newPlayerFixture()
		g.tournamentExists(&models.Tournament{ID: testTournamentID, MaxPlayers: intPtr(4)})
		g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
		g.players.On("CountByTournament", mock.Anything, testTournamentID).Return(4, nil)

		_, err := svc.AddGuest(context.Background(), testTournamentID, testAdminID, AddGuestInput{Name: "Ravi"})

		require.ErrorIs(t, err, ErrTournamentFull)
	})

	t.Run("requires name", func(t *testing.T) {
		g, _, _, svc := newPlayerFixture()
		g.tournamentExists(&models.Tournament{ID: testTournamentID})
		g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)

		_, err := svc.AddGuest(context.Background(), testTournamentID, testAdminID, AddGuestInput{Name: " "})

		require.ErrorIs(t, err, ErrGuestNameRequired)
	})

	t.Run("creates guest with category", func(t *testing.T) {
		g, _, _, svc := newPlayerFixture()
		g.tournamentExists(&models.Tournament{ID: testTournamentID})
		g.isAdmin(testTournamentID, testAdminID, models.AdminRoleAdmin)
		g.players.On("Create", mock.Anything, nil, mock.AnythingOfType("*models.TournamentPlayer")).
			Run(func(args mock.Arguments) { args.Get(2).(*models.TournamentPlayer).ID = "guest-1" }).
			Return(nil)

		guest, err := svc.AddGuest(context.Background(), testTournamentID, testAdminID, AddGuestInput{
			Name:     " Ravi ",
			Category: strPtr("Bowler"),
		})
		require.NoError(t, err)

		assert.Equal(t, "guest-1", guest.ID)
		assert.Nil(t, guest.UserID)
		require.NotNil(t, guest.Name)
		assert.Equal(t, "Ravi", *guest.Name)
		require.NotNil(t, guest.Category)
		assert.Equal(t, "Bowler", *guest.Category)
	})
}

func TestPlayerList_RequiresMembership(t *testing.T) {
	g, _, _, svc := newPlayerFixture()
	g.tournamentExists(&models.Tournament{ID: testTournamentID})
	g.players.On("GetByTournamentAndUser", mock.Anything, testTournamentID, testOutsiderID).Return(nil, repositories.ErrPlayerNotFound)

	_, err := svc.List(context.Background(), testTournamentID, testOutsiderID)

	require.ErrorIs(t, err, ErrNotTournamentMember)
	g.players.AssertNotCalled(t, "ListByTournament", mock.Anything, mock.Anything)
}
