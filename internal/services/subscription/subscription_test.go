package subscription_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/services/subscription"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) FindActiveSubscription(ctx context.Context, factoryID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, factoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context, factoryIDs []uuid.UUID) ([]*models.Subscription, error) {
	args := m.Called(ctx, factoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListAllSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *RepoMock) GetEntrepreneurFactoryIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// Мок для Cache — хранит значения в памяти
type CacheMock struct {
	values map[string]*models.Subscription
}

func newCacheMock() *CacheMock {
	return &CacheMock{values: make(map[string]*models.Subscription)}
}

func (c *CacheMock) Get(_ context.Context, key string, result any) (bool, error) {
	sub, ok := c.values[key]
	if !ok {
		return false, nil
	}
	*result.(*models.Subscription) = *sub
	return true, nil
}

func (c *CacheMock) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.values[key] = value.(*models.Subscription)
	return nil
}

func (c *CacheMock) Invalidate(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_ActiveForFactory(t *testing.T) {
	factoryID := uuid.New()
	limit := 10
	sub := &models.Subscription{
		ID:             uuid.New(),
		FactoryID:      factoryID,
		Plan:           models.PlanBasic,
		EquipmentLimit: &limit,
		IsActive:       true,
	}

	t.Run("промах кеша читает из базы и кеширует", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("FindActiveSubscription", mock.Anything, factoryID).Return(sub, nil).Once()
		cache := newCacheMock()

		service := subscription.New(repo, cache, testLogger())
		got, err := service.ActiveForFactory(context.Background(), factoryID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)

		// второй вызов обслуживается кешем
		got, err = service.ActiveForFactory(context.Background(), factoryID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		repo.AssertNumberOfCalls(t, "FindActiveSubscription", 1)
	})

	t.Run("отсутствие активной подписки — nil без ошибки", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("FindActiveSubscription", mock.Anything, factoryID).Return(nil, repository.ErrNotFound)

		service := subscription.New(repo, newCacheMock(), testLogger())
		got, err := service.ActiveForFactory(context.Background(), factoryID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestService_List(t *testing.T) {
	factoryID := uuid.New()

	t.Run("админ видит все подписки", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListAllSubscriptions", mock.Anything).
			Return([]*models.Subscription{{ID: uuid.New()}}, nil)

		service := subscription.New(repo, newCacheMock(), testLogger())
		admin := models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
		subs, err := service.List(context.Background(), admin)
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("руководитель видит подписки своего завода", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListSubscriptions", mock.Anything, []uuid.UUID{factoryID}).
			Return([]*models.Subscription{}, nil)

		service := subscription.New(repo, newCacheMock(), testLogger())
		manager := models.User{ID: uuid.New(), Role: models.RoleManager, FactoryID: &factoryID, IsActive: true}
		_, err := service.List(context.Background(), manager)
		assert.NoError(t, err)
	})
}

func TestService_Plans(t *testing.T) {
	service := subscription.New(new(RepoMock), newCacheMock(), testLogger())
	plans := service.Plans()
	require.Len(t, plans, 3)

	byCode := make(map[models.Plan]models.PlanInfo, len(plans))
	for _, p := range plans {
		byCode[p.Code] = p
	}

	basic := byCode[models.PlanBasic]
	require.NotNil(t, basic.EquipmentLimit)
	assert.Equal(t, 10, *basic.EquipmentLimit)
	assert.Equal(t, 150000, basic.Price)

	analytics := byCode[models.PlanAnalytics]
	require.NotNil(t, analytics.EquipmentLimit)
	assert.Equal(t, 50, *analytics.EquipmentLimit)
	assert.Equal(t, 450000, analytics.Price)

	corporate := byCode[models.PlanCorporate]
	assert.Nil(t, corporate.EquipmentLimit)
	assert.Equal(t, 1200000, corporate.Price)
}
