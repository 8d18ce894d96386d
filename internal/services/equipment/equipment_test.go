package equipment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/services/equipment"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetEquipment(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *RepoMock) ListEquipment(ctx context.Context, factoryIDs []uuid.UUID, filter models.EquipmentFilter) ([]*models.Equipment, error) {
	args := m.Called(ctx, factoryIDs, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Equipment), args.Error(1)
}

func (m *RepoMock) ListAllEquipment(ctx context.Context, filter models.EquipmentFilter) ([]*models.Equipment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Equipment), args.Error(1)
}

func (m *RepoMock) CountEquipment(ctx context.Context, factoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, factoryID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CreateEquipment(ctx context.Context, e models.Equipment) (uuid.UUID, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *RepoMock) GetEntrepreneurFactoryIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// Мок для SubscriptionFinder
type SubsMock struct {
	mock.Mock
}

func (m *SubsMock) ActiveForFactory(ctx context.Context, factoryID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, factoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Read(t *testing.T) {
	factoryA := uuid.New()
	factoryB := uuid.New()
	item := &models.Equipment{ID: uuid.New(), FactoryID: factoryA, Name: "Пресс ПГ-100"}

	t.Run("своё оборудование доступно", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetEquipment", mock.Anything, item.ID).Return(item, nil)

		service := equipment.New(repo, new(SubsMock), testLogger())
		manager := models.User{ID: uuid.New(), Role: models.RoleManager, FactoryID: &factoryA, IsActive: true}
		got, err := service.Read(context.Background(), manager, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
	})

	t.Run("чужое оборудование запрещено", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetEquipment", mock.Anything, item.ID).Return(item, nil)

		service := equipment.New(repo, new(SubsMock), testLogger())
		manager := models.User{ID: uuid.New(), Role: models.RoleManager, FactoryID: &factoryB, IsActive: true}
		_, err := service.Read(context.Background(), manager, item.ID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("заводы ИП входят в область видимости", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetEquipment", mock.Anything, item.ID).Return(item, nil)
		ieUser := models.User{ID: uuid.New(), Role: models.RoleManager, IsActive: true}
		repo.On("GetEntrepreneurFactoryIDs", mock.Anything, ieUser.ID).
			Return([]uuid.UUID{factoryA, factoryB}, nil)

		service := equipment.New(repo, new(SubsMock), testLogger())
		got, err := service.Read(context.Background(), ieUser, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
	})
}

func TestService_List(t *testing.T) {
	factoryA := uuid.New()

	t.Run("админ видит всё", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListAllEquipment", mock.Anything, mock.Anything).
			Return([]*models.Equipment{{ID: uuid.New()}}, nil)

		service := equipment.New(repo, new(SubsMock), testLogger())
		admin := models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
		items, err := service.List(context.Background(), admin, models.EquipmentFilter{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("пользователь без привязки получает пустой список", func(t *testing.T) {
		repo := new(RepoMock)
		viewer := models.User{ID: uuid.New(), Role: models.RoleViewer, IsActive: true}
		repo.On("GetEntrepreneurFactoryIDs", mock.Anything, viewer.ID).Return([]uuid.UUID(nil), nil)

		service := equipment.New(repo, new(SubsMock), testLogger())
		items, err := service.List(context.Background(), viewer, models.EquipmentFilter{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, items)
		repo.AssertNotCalled(t, "ListEquipment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("руководитель видит только свой завод", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListEquipment", mock.Anything, []uuid.UUID{factoryA}, mock.Anything).
			Return([]*models.Equipment{}, nil)

		service := equipment.New(repo, new(SubsMock), testLogger())
		manager := models.User{ID: uuid.New(), Role: models.RoleManager, FactoryID: &factoryA, IsActive: true}
		_, err := service.List(context.Background(), manager, models.EquipmentFilter{Limit: 10})
		assert.NoError(t, err)
	})
}

func TestService_Create(t *testing.T) {
	factoryA := uuid.New()
	manager := models.User{ID: uuid.New(), Role: models.RoleManager, FactoryID: &factoryA, IsActive: true}
	req := models.DummyEquipment{FactoryID: factoryA.String(), Name: "Станок токарный"}
	limit10 := 10

	t.Run("успешная регистрация в пределах лимита", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CountEquipment", mock.Anything, factoryA).Return(5, nil)
		newID := uuid.New()
		repo.On("CreateEquipment", mock.Anything, mock.MatchedBy(func(e models.Equipment) bool {
			return e.FactoryID == factoryA && e.Name == "Станок токарный" && e.Status == "operational"
		})).Return(newID, nil)

		subs := new(SubsMock)
		subs.On("ActiveForFactory", mock.Anything, factoryA).
			Return(&models.Subscription{FactoryID: factoryA, EquipmentLimit: &limit10, IsActive: true}, nil)

		service := equipment.New(repo, subs, testLogger())
		id, err := service.Create(context.Background(), manager, req)
		require.NoError(t, err)
		assert.Equal(t, newID, id)
	})

	t.Run("лимит подписки исчерпан", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CountEquipment", mock.Anything, factoryA).Return(10, nil)

		subs := new(SubsMock)
		subs.On("ActiveForFactory", mock.Anything, factoryA).
			Return(&models.Subscription{FactoryID: factoryA, EquipmentLimit: &limit10, IsActive: true}, nil)

		service := equipment.New(repo, subs, testLogger())
		_, err := service.Create(context.Background(), manager, req)
		assert.ErrorIs(t, err, access.ErrQuotaExceeded)
		repo.AssertNotCalled(t, "CreateEquipment", mock.Anything, mock.Anything)
	})

	t.Run("без активной подписки регистрация запрещена", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CountEquipment", mock.Anything, factoryA).Return(0, nil)

		subs := new(SubsMock)
		subs.On("ActiveForFactory", mock.Anything, factoryA).Return(nil, nil)

		service := equipment.New(repo, subs, testLogger())
		_, err := service.Create(context.Background(), manager, req)
		assert.ErrorIs(t, err, access.ErrQuotaExceeded)
	})

	t.Run("чужой завод запрещён", func(t *testing.T) {
		otherFactory := uuid.New()
		repo := new(RepoMock)

		service := equipment.New(repo, new(SubsMock), testLogger())
		_, err := service.Create(context.Background(), manager, models.DummyEquipment{
			FactoryID: otherFactory.String(),
			Name:      "Станок токарный",
		})
		assert.ErrorIs(t, err, access.ErrForbidden)
		repo.AssertNotCalled(t, "CountEquipment", mock.Anything, mock.Anything)
	})

	t.Run("админ не ограничен лимитом", func(t *testing.T) {
		admin := models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
		repo := new(RepoMock)
		newID := uuid.New()
		repo.On("CreateEquipment", mock.Anything, mock.Anything).Return(newID, nil)

		subs := new(SubsMock)

		service := equipment.New(repo, subs, testLogger())
		id, err := service.Create(context.Background(), admin, req)
		require.NoError(t, err)
		assert.Equal(t, newID, id)
		subs.AssertNotCalled(t, "ActiveForFactory", mock.Anything, mock.Anything)
	})
}
