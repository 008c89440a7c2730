package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/repositories"
)

func TestUserGetProfile(t *testing.T) {
	users := &mockUserRepo{}
	users.On("GetByID", mock.Anything, testAdminID).Return(&models.User{ID: testAdminID, Name: "Asha"}, nil)
	users.On("GetByID", mock.Anything, testOutsiderID).Return(nil, repositories.ErrUserNotFound)
	svc := NewUserService(users)

	u, err := svc.GetProfile(context.Background(), testAdminID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)

	_, err = svc.GetProfile(context.Background(), testOutsiderID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDashboardGetStats(t *testing.T) {
	tournaments := &mockTournamentRepo{}
	tournaments.On("GetUserStats", mock.Anything, testAdminID).
		Return(&models.DashboardStats{CreatedTournaments: 2, JoinedTournaments: 5, ActiveTournaments: 3, TeamsPlayedOn: 4}, nil)
	tournaments.On("GetUserStats", mock.Anything, testOutsiderID).Return(nil, errors.New("timeout"))
	svc := NewDashboardService(tournaments)

	stats, err := svc.GetStats(context.Background(), testAdminID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.JoinedTournaments)

	_, err = svc.GetStats(context.Background(), testOutsiderID)
	require.Error(t, err)
}
