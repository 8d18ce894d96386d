// Package create реализует HTTP-обработчик подачи заявки на роль руководителя.
//
// Ручка публичная: заявитель ещё не имеет аккаунта. Повторная заявка
// с той же почтой или почтой существующего пользователя отклоняется
// как конфликт.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/http/response"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// Handler управляет HTTP-запросами на подачу заявок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики заявок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики подачи заявки.
type Service interface {
	Create(ctx context.Context, req models.DummyApplication) (uuid.UUID, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подать заявку на роль руководителя
// @Description Сохраняет заявку от неаутентифицированного заявителя. Возвращает ID заявки.
// @Tags Applications
// @Accept  json
// @Produce  json
// @Param request body models.DummyApplication true "Данные заявки"
// @Success 201 {object} map[string]any "Заявка принята"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Заявка или пользователь с такой почтой уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /applications [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyApplication
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	switch {
	case errors.Is(err, repository.ErrConflict):
		log.Error("duplicate application", slog.String("email", req.Email))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("application or user with this email already exists"))
		return
	case err != nil:
		log.Error("failed to create application", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create application"))
		return
	}

	log.Info("application submitted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
