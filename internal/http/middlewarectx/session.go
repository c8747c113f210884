// Package middlewarectx содержит HTTP middleware шлюза: извлечение
// личности из сессионной cookie и admission-контроль входящих запросов.
//
// SessionMiddleware читает cookie с JWT, проверяет токен и кладёт в
// контекст uid, email и роль пользователя. Отсутствие или негодность
// cookie не является ошибкой: запрос продолжается от имени гостя,
// окончательное решение о допуске принимает admission-контроль.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/auth-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/auth-gateway/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UID — ключ для идентификатора пользователя в контексте
	UID Key = "uid"
	// Email — ключ для email пользователя в контексте
	Email Key = "email"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// Authenticator описывает проверку токена и восстановление личности.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// CookieReader описывает чтение сессионной cookie из запроса.
type CookieReader interface {
	Read(r *http.Request) (string, bool)
}

// RoleFromContext возвращает роль из контекста запроса, для
// неаутентифицированных запросов — "guest".
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(Role).(string); ok && role != "" {
		return role
	}
	return models.RoleGuest
}

// SessionMiddleware возвращает middleware, восстанавливающее личность
// пользователя из сессионной cookie.
func SessionMiddleware(auth Authenticator, sessions CookieReader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			token, ok := sessions.Read(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Debug("session token rejected, continuing as guest",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UID, user.UID)
			ctx = context.WithValue(ctx, Email, user.Email)
			ctx = context.WithValue(ctx, Role, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
