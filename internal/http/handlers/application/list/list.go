// Package list реализует HTTP-обработчик списка заявок для администратора.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/http/middlewarectx"
	"github.com/erzhanov/factory-monitor/internal/http/response"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/models"
)

// Handler обрабатывает запросы на получение списка заявок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики заявок
}

// Service описывает интерфейс бизнес-логики списка заявок.
type Service interface {
	List(ctx context.Context, user models.User, status string, limit, offset int) ([]*models.Application, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список заявок
// @Description Возвращает заявки с фильтром по статусу. Доступно только администраторам.
// @Tags Applications
// @Produce  json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу: new, approved, rejected"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /applications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.list"

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

	status := r.URL.Query().Get("status")
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	apps, err := h.service.List(r.Context(), user, status, limit, offset)
	switch {
	case errors.Is(err, access.ErrForbidden):
		log.Error("forbidden", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access forbidden"))
		return
	case err != nil:
		log.Error("failed to list applications", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list applications"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"applications": apps,
	}))
}
