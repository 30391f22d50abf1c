package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/UkralStul/movie-discovery-service/internal/auth"
)

type contextKey string

const userIDKey = contextKey("userID")

// requireAuth проверяет bearer-токен и кладет идентификатор
// пользователя в контекст запроса.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "No authentication token, authorization denied")
			return
		}

		userID, err := auth.ParseToken(token, s.tokenSecret)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFrom достает идентификатор пользователя, положенный requireAuth.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
