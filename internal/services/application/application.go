// Package application реализует жизненный цикл заявки на роль руководителя:
// подачу, рассмотрение администратором и выпуск учётных данных.
//
// Заявка переходит из статуса new ровно один раз — в approved или
// rejected. Оба перехода доступны только администраторам и выполняются
// атомарно на уровне хранилища.
package application

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/lib/password"
	"github.com/erzhanov/factory-monitor/internal/lib/rabbitmq"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/metrics"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// ErrUnavailable возвращается при повторном запросе учётных данных:
// открытый пароль существует только в момент одобрения заявки
// и восстановлению не подлежит.
var ErrUnavailable = errors.New("credentials are no longer available")

// Repository описывает контракт хранилища для работы с заявками.
type Repository interface {
	// CreateApplication сохраняет новую заявку и возвращает её ID.
	CreateApplication(ctx context.Context, app models.Application) (uuid.UUID, error)
	// GetApplication возвращает заявку по идентификатору.
	GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	// ListApplications возвращает заявки с фильтром по статусу и пагинацией.
	ListApplications(ctx context.Context, status string, limit, offset int) ([]*models.Application, error)
	// ApproveApplication атомарно создаёт пользователя и одобряет заявку.
	ApproveApplication(ctx context.Context, appID uuid.UUID, user models.User, reviewedBy uuid.UUID, credsPath string) (uuid.UUID, error)
	// RejectApplication отклоняет заявку с указанием причины.
	RejectApplication(ctx context.Context, appID uuid.UUID, reviewedBy uuid.UUID, reason string) error
	// GetUserByEmail возвращает пользователя по электронной почте.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// FactoryExists проверяет наличие завода.
	FactoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CredentialsWriter записывает файл с учётными данными нового аккаунта.
type CredentialsWriter interface {
	Write(creds models.Credentials) (string, error)
}

// EventPublisher публикует события рассмотрения заявок.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику работы с заявками.
type Service struct {
	repo      Repository
	creds     CredentialsWriter
	publisher EventPublisher
	log       *slog.Logger
}

// New создает новый Service.
func New(repo Repository, creds CredentialsWriter, publisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		creds:     creds,
		publisher: publisher,
		log:       log,
	}
}

// ApprovalResult — результат одобрения заявки. Password — единственная
// копия открытого пароля, она возвращается администратору один раз.
type ApprovalResult struct {
	UserID   uuid.UUID // Созданный пользователь
	Username string    // Имя пользователя
	Email    string    // Почта заявителя
	Password string    // Пароль в открытом виде, выдаётся однократно
}

// Create сохраняет новую заявку от неаутентифицированного заявителя.
// Заявка с почтой существующего пользователя или существующей заявки
// отклоняется как конфликт.
func (s *Service) Create(ctx context.Context, req models.DummyApplication) (uuid.UUID, error) {
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return uuid.Nil, &repository.ConflictError{Field: "email"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, err
	}

	app := models.Application{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Description: req.Description,
		Status:      models.StatusNew,
	}
	if req.PlanCode != "" {
		plan := models.Plan(req.PlanCode)
		app.PlanCode = &plan
	}

	id, err := s.repo.CreateApplication(ctx, app)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("application submitted", slog.String("id", id.String()))
	return id, nil
}

// List возвращает заявки. Доступно только администраторам.
func (s *Service) List(ctx context.Context, user models.User, status string, limit, offset int) ([]*models.Application, error) {
	if err := access.CheckRole(user, models.RoleAdmin); err != nil {
		metrics.AccessDenied.WithLabelValues("forbidden").Inc()
		return nil, err
	}
	return s.repo.ListApplications(ctx, status, limit, offset)
}

// Read возвращает заявку по идентификатору. Доступно только администраторам.
func (s *Service) Read(ctx context.Context, user models.User, id uuid.UUID) (*models.Application, error) {
	if err := access.CheckRole(user, models.RoleAdmin); err != nil {
		metrics.AccessDenied.WithLabelValues("forbidden").Inc()
		return nil, err
	}
	return s.repo.GetApplication(ctx, id)
}

// Approve одобряет заявку: генерирует пароль, создаёт аккаунт
// руководителя указанного завода и переводит заявку в статус approved.
// Создание пользователя и смена статуса атомарны; повторное одобрение
// завершается ошибкой недопустимого состояния без каких-либо изменений.
func (s *Service) Approve(ctx context.Context, admin models.User, appID uuid.UUID, req models.DummyApprove) (*ApprovalResult, error) {
	if err := access.CheckRole(admin, models.RoleAdmin); err != nil {
		metrics.AccessDenied.WithLabelValues("forbidden").Inc()
		return nil, err
	}

	app, err := s.repo.GetApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.StatusNew {
		return nil, &repository.InvalidStateError{
			Current:  string(app.Status),
			Expected: string(models.StatusNew),
		}
	}

	factoryID, err := uuid.Parse(req.FactoryID)
	if err != nil {
		return nil, &repository.InvalidStateError{Current: "invalid factory_id", Expected: "uuid"}
	}
	exists, err := s.repo.FactoryExists(ctx, factoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrNotFound
	}

	plainPassword, err := password.Generate(password.MinLength)
	if err != nil {
		return nil, err
	}
	passwordHash, err := password.GetHash(plainPassword)
	if err != nil {
		return nil, err
	}

	newUser := models.User{
		Email:        app.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		FullName:     app.FullName,
		Phone:        app.Phone,
		Position:     "Руководитель",
		Role:         models.RoleManager,
		FactoryID:    &factoryID,
		IsActive:     true,
		IsVerified:   true,
	}

	credsPath, err := s.creds.Write(models.Credentials{
		Username: req.Username,
		Password: plainPassword,
		Email:    app.Email,
	})
	if err != nil {
		return nil, err
	}

	userID, err := s.repo.ApproveApplication(ctx, appID, newUser, admin.ID, credsPath)
	if err != nil {
		if rmErr := os.Remove(credsPath); rmErr != nil {
			s.log.Warn("failed to remove credentials file", sl.Err(rmErr))
		}
		return nil, err
	}

	metrics.ApplicationsReviewed.WithLabelValues(string(models.StatusApproved)).Inc()
	s.publishEvent(appID, models.StatusApproved, app.Email, admin.ID)
	s.log.Info("application approved",
		slog.String("application_id", appID.String()),
		slog.String("user_id", userID.String()))

	return &ApprovalResult{
		UserID:   userID,
		Username: req.Username,
		Email:    app.Email,
		Password: plainPassword,
	}, nil
}

// Reject отклоняет заявку с указанием причины. Других побочных
// эффектов у отклонения нет.
func (s *Service) Reject(ctx context.Context, admin models.User, appID uuid.UUID, reason string) error {
	if err := access.CheckRole(admin, models.RoleAdmin); err != nil {
		metrics.AccessDenied.WithLabelValues("forbidden").Inc()
		return err
	}

	if err := s.repo.RejectApplication(ctx, appID, admin.ID, reason); err != nil {
		return err
	}

	metrics.ApplicationsReviewed.WithLabelValues(string(models.StatusRejected)).Inc()
	app, err := s.repo.GetApplication(ctx, appID)
	if err == nil {
		s.publishEvent(appID, models.StatusRejected, app.Email, admin.ID)
	}
	s.log.Info("application rejected", slog.String("application_id", appID.String()))
	return nil
}

// Credentials обрабатывает повторный запрос учётных данных одобренной
// заявки. Пароль не хранится и не восстановим, поэтому запрос всегда
// завершается ErrUnavailable; для нерассмотренных заявок — ErrNotFound.
func (s *Service) Credentials(ctx context.Context, admin models.User, appID uuid.UUID) error {
	if err := access.CheckRole(admin, models.RoleAdmin); err != nil {
		metrics.AccessDenied.WithLabelValues("forbidden").Inc()
		return err
	}

	app, err := s.repo.GetApplication(ctx, appID)
	if err != nil {
		return err
	}
	if app.Status != models.StatusApproved {
		return repository.ErrNotFound
	}
	return ErrUnavailable
}

func (s *Service) publishEvent(appID uuid.UUID, status models.ApplicationStatus, email string, reviewedBy uuid.UUID) {
	event := models.ReviewEvent{
		ApplicationID: appID,
		Status:        status,
		Email:         email,
		ReviewedBy:    reviewedBy,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(rabbitmq.ReviewRoutingKey, event); err != nil {
		s.log.Warn("failed to publish review event", sl.Err(err))
	}
}
