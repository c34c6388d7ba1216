package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/smartbooking-ai/smartbooking/internal/api/handlers"
)

type userIDCtxKey struct{}

const userIDHeader = "X-User-ID"

// Auth проверяет наличие идентификатора пользователя в заголовке запроса.
// Аутентификация выполняется выше по стеку (gateway), сюда приходит
// уже проверенный идентификатор администратора.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDCtxKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDCtxKey{}).(int64)
	return userID, ok
}
