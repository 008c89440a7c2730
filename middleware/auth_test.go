package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

const testUserID = "9b2f3c4d-1e2f-4a5b-8c9d-0e1f2a3b4c5d"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": testUserID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

// echoUser отвечает user_id из контекста.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(id))
})

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header func(t *testing.T) string
		want   int
	}{
		{
			name:   "valid token",
			header: func(t *testing.T) string { return "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims()) },
			want:   http.StatusOK,
		},
		{
			name:   "lower-case scheme",
			header: func(t *testing.T) string { return "bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims()) },
			want:   http.StatusOK,
		},
		{
			name:   "missing header",
			header: func(*testing.T) string { return "" },
			want:   http.StatusUnauthorized,
		},
		{
			name:   "wrong scheme",
			header: func(t *testing.T) string { return "Basic " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims()) },
			want:   http.StatusUnauthorized,
		},
		{
			name:   "wrong secret",
			header: func(t *testing.T) string { return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims()) },
			want:   http.StatusUnauthorized,
		},
		{
			name: "expired",
			header: func(t *testing.T) string {
				claims := validClaims()
				claims["exp"] = time.Now().Add(-time.Minute).Unix()
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, claims)
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "unsigned token",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims())
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "user_id is not a uuid",
			header: func(t *testing.T) string {
				claims := validClaims()
				claims["user_id"] = "42"
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, claims)
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "user_id missing",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
			},
			want: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			rec := httptest.NewRecorder()

			Authenticate(testSecret)(echoUser).ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want == http.StatusOK {
				assert.Equal(t, testUserID, rec.Body.String())
				return
			}
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	_, err := GetUserIDFromContext(context.Background())
	require.ErrorIs(t, err, ErrNoUserInContext)

	ctx := WithUserClaims(context.Background(), jwt.MapClaims{"user_id": 17})
	_, err = GetUserIDFromContext(ctx)
	require.Error(t, err)

	ctx = WithUserClaims(context.Background(), jwt.MapClaims{"user_id": "9B2F3C4D-1E2F-4A5B-8C9D-0E1F2A3B4C5D"})
	id, err := GetUserIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id)
}
