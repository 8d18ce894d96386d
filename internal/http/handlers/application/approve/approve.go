// Package approve реализует HTTP-обработчик одобрения заявки.
//
// Одобрение создаёт аккаунт руководителя и возвращает сгенерированный
// пароль ровно один раз — в теле этого ответа. Повторное одобрение той
// же заявки завершается ошибкой недопустимого состояния.
package approve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/http/middlewarectx"
	"github.com/erzhanov/factory-monitor/internal/http/response"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/services/application"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// Handler управляет HTTP-запросами на одобрение заявок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики заявок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики одобрения заявки.
type Service interface {
	Approve(ctx context.Context, admin models.User, appID uuid.UUID, req models.DummyApprove) (*application.ApprovalResult, error)
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
// @Summary Одобрить заявку
// @Description Создает аккаунт руководителя для указанного завода и одобряет заявку. Пароль возвращается один раз.
// @Tags Applications
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Param request body models.DummyApprove true "Имя пользователя и завод нового руководителя"
// @Success 200 {object} map[string]any "Учетные данные нового аккаунта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Заявка или завод не найдены"
// @Failure 409 {object} response.ErrorResponse "Email или username уже заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или заявка уже рассмотрена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /applications/{id}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.approve"

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

	var req models.DummyApprove
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

	result, err := h.service.Approve(r.Context(), user, appID, req)
	switch {
	case errors.Is(err, access.ErrForbidden):
		log.Error("forbidden", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access forbidden"))
		return
	case errors.Is(err, repository.ErrNotFound):
		log.Error("application or factory not found", slog.String("id", appID.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("application or factory not found"))
		return
	case errors.Is(err, repository.ErrConflict):
		log.Error("conflict on approve", sl.Err(err))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("email or username is already taken"))
		return
	case errors.Is(err, repository.ErrInvalidState):
		log.Error("application already reviewed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("application is already reviewed"))
		return
	case err != nil:
		log.Error("failed to approve application", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not approve application"))
		return
	}

	log.Info("application approved",
		slog.String("application_id", appID.String()),
		slog.String("user_id", result.UserID.String()))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id":  result.UserID,
		"username": result.Username,
		"email":    result.Email,
		"password": result.Password,
	}))
}
