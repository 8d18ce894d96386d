package application_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/lib/password"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/services/application"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateApplication(ctx context.Context, app models.Application) (uuid.UUID, error) {
	args := m.Called(ctx, app)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *RepoMock) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *RepoMock) ListApplications(ctx context.Context, status string, limit, offset int) ([]*models.Application, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}

func (m *RepoMock) ApproveApplication(ctx context.Context, appID uuid.UUID, user models.User, reviewedBy uuid.UUID, credsPath string) (uuid.UUID, error) {
	args := m.Called(ctx, appID, user, reviewedBy, credsPath)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *RepoMock) RejectApplication(ctx context.Context, appID uuid.UUID, reviewedBy uuid.UUID, reason string) error {
	args := m.Called(ctx, appID, reviewedBy, reason)
	return args.Error(0)
}

func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) FactoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// Мок для CredentialsWriter
type CredsWriterMock struct {
	mock.Mock
}

func (m *CredsWriterMock) Write(creds models.Credentials) (string, error) {
	args := m.Called(creds)
	return args.String(0), args.Error(1)
}

// Мок для EventPublisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adminUser() models.User {
	return models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
}

func newApplication(status models.ApplicationStatus) *models.Application {
	return &models.Application{
		ID:       uuid.New(),
		FullName: "Ерлан Сериков",
		Email:    "erlan@factory.kz",
		Phone:    "+77001234567",
		Status:   status,
	}
}

func TestService_Create(t *testing.T) {
	t.Run("успешная подача заявки", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByEmail", mock.Anything, "erlan@factory.kz").Return(nil, repository.ErrNotFound)
		appID := uuid.New()
		repo.On("CreateApplication", mock.Anything, mock.MatchedBy(func(app models.Application) bool {
			return app.Email == "erlan@factory.kz" && app.Status == models.StatusNew
		})).Return(appID, nil)

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		id, err := service.Create(context.Background(), models.DummyApplication{
			FullName: "Ерлан Сериков",
			Email:    "erlan@factory.kz",
			Phone:    "+77001234567",
			PlanCode: "basic",
		})
		require.NoError(t, err)
		assert.Equal(t, appID, id)
	})

	t.Run("почта существующего пользователя", func(t *testing.T) {
		repo := new(RepoMock)
		existing := models.User{ID: uuid.New(), Email: "erlan@factory.kz"}
		repo.On("GetUserByEmail", mock.Anything, "erlan@factory.kz").Return(&existing, nil)

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		_, err := service.Create(context.Background(), models.DummyApplication{
			FullName: "Ерлан Сериков",
			Email:    "erlan@factory.kz",
			Phone:    "+77001234567",
		})
		assert.ErrorIs(t, err, repository.ErrConflict)
		repo.AssertNotCalled(t, "CreateApplication", mock.Anything, mock.Anything)
	})
}

func TestService_Approve(t *testing.T) {
	factoryID := uuid.New()
	admin := adminUser()
	approveReq := models.DummyApprove{Username: "newmanager", FactoryID: factoryID.String()}

	t.Run("успешное одобрение возвращает пароль один раз", func(t *testing.T) {
		app := newApplication(models.StatusNew)
		newUserID := uuid.New()

		repo := new(RepoMock)
		repo.On("GetApplication", mock.Anything, app.ID).Return(app, nil)
		repo.On("FactoryExists", mock.Anything, factoryID).Return(true, nil)
		repo.On("ApproveApplication", mock.Anything, app.ID, mock.MatchedBy(func(u models.User) bool {
			return u.Email == app.Email &&
				u.Username == "newmanager" &&
				u.Role == models.RoleManager &&
				u.FactoryID != nil && *u.FactoryID == factoryID &&
				u.IsActive && u.IsVerified &&
				u.PasswordHash != ""
		}), admin.ID, "/tmp/creds.xlsx").Return(newUserID, nil)

		creds := new(CredsWriterMock)
		creds.On("Write", mock.MatchedBy(func(c models.Credentials) bool {
			return c.Username == "newmanager" && len(c.Password) >= password.MinLength
		})).Return("/tmp/creds.xlsx", nil)

		publisher := new(PublisherMock)
		publisher.On("Publish", "review", mock.Anything).Return(nil)

		service := application.New(repo, creds, publisher, testLogger())
		result, err := service.Approve(context.Background(), admin, app.ID, approveReq)
		require.NoError(t, err)
		assert.Equal(t, newUserID, result.UserID)
		assert.Equal(t, "newmanager", result.Username)
		assert.GreaterOrEqual(t, len(result.Password), password.MinLength)

		// пароль из разрешённого алфавита
		const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
		for _, c := range result.Password {
			assert.True(t, strings.ContainsRune(alphabet, c))
		}
		publisher.AssertCalled(t, "Publish", "review", mock.Anything)
	})

	t.Run("не-админ получает отказ", func(t *testing.T) {
		manager := models.User{ID: uuid.New(), Role: models.RoleManager, FactoryID: &factoryID, IsActive: true}
		repo := new(RepoMock)

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		_, err := service.Approve(context.Background(), manager, uuid.New(), approveReq)
		assert.ErrorIs(t, err, access.ErrForbidden)
		repo.AssertNotCalled(t, "GetApplication", mock.Anything, mock.Anything)
	})

	t.Run("повторное одобрение уже рассмотренной заявки", func(t *testing.T) {
		app := newApplication(models.StatusApproved)
		repo := new(RepoMock)
		repo.On("GetApplication", mock.Anything, app.ID).Return(app, nil)

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		_, err := service.Approve(context.Background(), admin, app.ID, approveReq)
		assert.ErrorIs(t, err, repository.ErrInvalidState)
		repo.AssertNotCalled(t, "ApproveApplication",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("несуществующий завод", func(t *testing.T) {
		app := newApplication(models.StatusNew)
		repo := new(RepoMock)
		repo.On("GetApplication", mock.Anything, app.ID).Return(app, nil)
		repo.On("FactoryExists", mock.Anything, factoryID).Return(false, nil)

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		_, err := service.Approve(context.Background(), admin, app.ID, approveReq)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("конфликт username при одобрении", func(t *testing.T) {
		app := newApplication(models.StatusNew)
		repo := new(RepoMock)
		repo.On("GetApplication", mock.Anything, app.ID).Return(app, nil)
		repo.On("FactoryExists", mock.Anything, factoryID).Return(true, nil)
		repo.On("ApproveApplication", mock.Anything, app.ID, mock.Anything, admin.ID, mock.Anything).
			Return(uuid.Nil, &repository.ConflictError{Field: "username"})

		creds := new(CredsWriterMock)
		creds.On("Write", mock.Anything).Return("/tmp/creds.xlsx", nil)

		publisher := new(PublisherMock)

		service := application.New(repo, creds, publisher, testLogger())
		_, err := service.Approve(context.Background(), admin, app.ID, approveReq)
		assert.ErrorIs(t, err, repository.ErrConflict)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestService_Reject(t *testing.T) {
	admin := adminUser()

	t.Run("успешное отклонение", func(t *testing.T) {
		app := newApplication(models.StatusRejected)
		repo := new(RepoMock)
		repo.On("RejectApplication", mock.Anything, app.ID, admin.ID, "неполные данные").Return(nil)
		repo.On("GetApplication", mock.Anything, app.ID).Return(app, nil)

		publisher := new(PublisherMock)
		publisher.On("Publish", "review", mock.Anything).Return(nil)

		service := application.New(repo, new(CredsWriterMock), publisher, testLogger())
		err := service.Reject(context.Background(), admin, app.ID, "неполные данные")
		assert.NoError(t, err)
	})

	t.Run("отклонение уже рассмотренной заявки", func(t *testing.T) {
		appID := uuid.New()
		repo := new(RepoMock)
		repo.On("RejectApplication", mock.Anything, appID, admin.ID, "причина").
			Return(&repository.InvalidStateError{Current: "approved", Expected: "new"})

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		err := service.Reject(context.Background(), admin, appID, "причина")
		assert.ErrorIs(t, err, repository.ErrInvalidState)
	})
}

func TestService_Credentials(t *testing.T) {
	admin := adminUser()

	t.Run("одобренная заявка — данные более недоступны", func(t *testing.T) {
		app := newApplication(models.StatusApproved)
		repo := new(RepoMock)
		repo.On("GetApplication", mock.Anything, app.ID).Return(app, nil)

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		err := service.Credentials(context.Background(), admin, app.ID)
		assert.ErrorIs(t, err, application.ErrUnavailable)
	})

	t.Run("нерассмотренная заявка — не найдено", func(t *testing.T) {
		app := newApplication(models.StatusNew)
		repo := new(RepoMock)
		repo.On("GetApplication", mock.Anything, app.ID).Return(app, nil)

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		err := service.Credentials(context.Background(), admin, app.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("не-админ получает отказ", func(t *testing.T) {
		viewer := models.User{ID: uuid.New(), Role: models.RoleViewer, IsActive: true}
		repo := new(RepoMock)

		service := application.New(repo, new(CredsWriterMock), new(PublisherMock), testLogger())
		err := service.Credentials(context.Background(), viewer, uuid.New())
		assert.ErrorIs(t, err, access.ErrForbidden)
	})
}
