// Package list реализует HTTP-обработчик списка оборудования.
//
// Список всегда ограничен областью видимости пользователя: админ видит
// всё, остальные — только оборудование своих заводов.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/http/middlewarectx"
	"github.com/erzhanov/factory-monitor/internal/http/response"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/models"
)

// Handler обрабатывает запросы на получение списка оборудования.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики оборудования
}

// Service описывает интерфейс бизнес-логики списка оборудования.
type Service interface {
	List(ctx context.Context, user models.User, filter models.EquipmentFilter) ([]*models.Equipment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список оборудования
// @Description Возвращает оборудование в пределах области видимости пользователя.
// @Tags Equipment
// @Produce  json
// @Security BearerAuth
// @Param factory_id query string false "Фильтр по заводу"
// @Param status query string false "Фильтр по статусу"
// @Param search query string false "Поиск по названию"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список оборудования"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /equipment [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.equipment.list"

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

	var filter models.EquipmentFilter
	if raw := r.URL.Query().Get("factory_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Error("failed to decode factory_id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid factory_id"))
			return
		}
		filter.FactoryID = &id
	}
	filter.Status = r.URL.Query().Get("status")
	filter.Search = r.URL.Query().Get("search")
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	filter.Limit = limit
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	filter.Offset = offset

	items, err := h.service.List(r.Context(), user, filter)
	if err != nil {
		log.Error("failed to list equipment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list equipment"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"equipment": items,
	}))
}
