// Package credentials реализует HTTP-обработчик повторного запроса
// учётных данных одобренной заявки.
//
// Пароль выдаётся ровно один раз в ответе на одобрение и не хранится,
// поэтому для одобренной заявки ручка всегда отвечает 410 Gone.
package credentials

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/http/middlewarectx"
	"github.com/erzhanov/factory-monitor/internal/http/response"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/services/application"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// Handler обрабатывает запросы на повторное получение учётных данных.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики заявок
}

// Service описывает интерфейс бизнес-логики выдачи учётных данных.
type Service interface {
	Credentials(ctx context.Context, admin models.User, appID uuid.UUID) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Повторно запросить учетные данные
// @Description Пароль одобренной заявки не хранится и не восстановим: ручка отвечает 410 Gone.
// @Tags Applications
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена или не одобрена"
// @Failure 410 {object} response.ErrorResponse "Учетные данные более недоступны"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /applications/{id}/credentials [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.credentials"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.CurrentUser(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user is not authenticated"))
		return
	}

	appID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid application id"))
		return
	}

	err = h.service.Credentials(r.Context(), user, appID)
	switch {
	case errors.Is(err, access.ErrForbidden):
		log.Error("forbidden", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access forbidden"))
		return
	case errors.Is(err, repository.ErrNotFound):
		log.Error("application not found or not approved", slog.String("id", appID.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("application not found or not approved"))
		return
	case errors.Is(err, application.ErrUnavailable):
		w.WriteHeader(http.StatusGone)
		render.JSON(w, r, response.Error("credentials are no longer available"))
		return
	case err != nil:
		log.Error("failed to read credentials", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read credentials"))
		return
	}
}
