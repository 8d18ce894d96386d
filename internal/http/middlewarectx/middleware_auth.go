// Package middlewarectx содержит HTTP middleware для проверки сессионных токенов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке
// Authorization, загружает актуального пользователя из хранилища и кладёт
// его в контекст запроса для дальнейшего использования в обработчиках.
//
// Невалидный токен — HTTP 401 Unauthorized, деактивированный аккаунт —
// HTTP 403 Forbidden.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/erzhanov/factory-monitor/internal/http/response"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ для аутентифицированного пользователя в контексте.
const User Key = "user"

// Service описывает интерфейс сервиса для проверки сессионного токена.
type Service interface {
	VerifySession(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT
// в заголовке Authorization.
//
// Если токен валиден и аккаунт активен, добавляет пользователя в контекст
// запроса, иначе возвращает 401; для деактивированного аккаунта — 403.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.VerifySession(r.Context(), tokenStr)
			if errors.Is(err, auth.ErrInactiveUser) {
				log.Error("inactive user", sl.Err(err))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("user account is inactive"))
				return
			}
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser извлекает аутентифицированного пользователя из контекста.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(User).(models.User)
	return user, ok
}
