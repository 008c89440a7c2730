package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const userContextKey contextKey = "user"

var (
	errMissingToken   = errors.New("missing bearer token")
	errInvalidToken   = errors.New("invalid or expired token")
	errUnexpectedAlgo = errors.New("unexpected signing method")
)

// Authenticate проверяет HS256 JWT из заголовка Authorization и кладёт claims в контекст.
// Токены выпускает внешний сервис авторизации, здесь только проверка подписи и срока.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseBearerToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				slog.DebugContext(r.Context(), "authentication failed",
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				writeUnauthorized(w)
				return
			}

			if _, err := userIDFromClaims(claims); err != nil {
				slog.DebugContext(r.Context(), "token without usable user_id", slog.Any("error", err))
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserClaims(r.Context(), claims)))
		})
	}
}

// WithUserClaims кладёт claims в контекст так же, как Authenticate.
func WithUserClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func parseBearerToken(header string, secret []byte) (jwt.MapClaims, error) {
	if header == "" {
		return nil, errMissingToken
	}
	scheme, tokenString, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
		return nil, errMissingToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", errUnexpectedAlgo, token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidToken, err)
	}
	if !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}` + "\n"))
}
