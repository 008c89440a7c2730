package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playday/tournament-organizer/models"
	"github.com/playday/tournament-organizer/services"
)

type stubTournamentService struct {
	joinCode    string
	createInput services.CreateTournamentInput
	err         error
}

func (s *stubTournamentService) Create(_ context.Context, creatorID string, input services.CreateTournamentInput) (*models.Tournament, error) {
	s.createInput = input
	if s.err != nil {
		return nil, s.err
	}
	return &models.Tournament{ID: testTournamentID, Name: input.Name, Code: "ABCD1234", CreatorID: creatorID, IsActive: true}, nil
}

func (s *stubTournamentService) Join(_ context.Context, _ string, code string) (*models.Tournament, error) {
	s.joinCode = code
	if s.err != nil {
		return nil, s.err
	}
	return &models.Tournament{ID: testTournamentID, Code: code, IsActive: true}, nil
}

func (s *stubTournamentService) GetDetails(context.Context, string, string) (*services.TournamentDetails, error) {
	return nil, s.err
}

func (s *stubTournamentService) ListForUser(context.Context, string) (*services.UserTournaments, error) {
	return &services.UserTournaments{Created: []models.Tournament{}, Joined: []models.Tournament{}}, s.err
}

func (s *stubTournamentService) Update(context.Context, string, string, services.UpdateTournamentInput) (*models.Tournament, error) {
	return nil, s.err
}

func (s *stubTournamentService) UploadLogo(context.Context, string, string, string, io.Reader) (*models.Tournament, error) {
	return nil, s.err
}

func tournamentRouter(svc services.TournamentService) http.Handler {
	h := NewTournamentHandler(svc)
	r := chi.NewRouter()
	r.Post("/tournaments", h.Create)
	r.Post("/tournaments/join", h.Join)
	return r
}

func TestTournamentJoin(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"joined", `{"code":"abcd1234"}`, nil, http.StatusOK},
		{"missing code", `{}`, nil, http.StatusUnprocessableEntity},
		{"unknown code", `{"code":"ZZZZ"}`, services.ErrTournamentNotFound, http.StatusNotFound},
		{"already joined", `{"code":"ABCD1234"}`, services.ErrAlreadyJoined, http.StatusConflict},
		{"inactive", `{"code":"ABCD1234"}`, services.ErrTournamentInactive, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubTournamentService{err: tt.err}
			req := httptest.NewRequest(http.MethodPost, "/tournaments/join", strings.NewReader(tt.body))

			rec := serveAs(t, tournamentRouter(svc), req, testUserID)

			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want == http.StatusOK {
				body := decodeBody(t, rec)
				assert.Equal(t, true, body["success"])
				assert.Contains(t, body, "tournament")
				assert.Equal(t, "abcd1234", svc.joinCode)
			}
		})
	}
}

func TestTournamentCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubTournamentService{}
		body := `{"name":"Sunday League","start_date":"2025-06-01T09:00:00Z","end_date":"2025-06-02T18:00:00Z","max_players":24}`
		req := httptest.NewRequest(http.MethodPost, "/tournaments", strings.NewReader(body))

		rec := serveAs(t, tournamentRouter(svc), req, testUserID)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NotNil(t, svc.createInput.MaxPlayers)
		assert.Equal(t, 24, *svc.createInput.MaxPlayers)
		require.NotNil(t, svc.createInput.StartDate)
		assert.Equal(t, 2025, svc.createInput.StartDate.Year())
	})

	t.Run("non-positive capacity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tournaments", strings.NewReader(`{"name":"Cup","max_players":0}`))

		rec := serveAs(t, tournamentRouter(&stubTournamentService{}), req, testUserID)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
