// Package subscription содержит бизнес-логику работы с подписками:
// определение текущей подписки завода, список подписок в пределах
// области видимости пользователя и справочник тарифов.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// cacheTTL — время жизни кэша текущей подписки. Подписка меняется
// редко, а проверка лимита читает её на каждом создании оборудования.
const cacheTTL = 5 * time.Minute

// Repository описывает контракт хранилища для работы с подписками.
type Repository interface {
	FindActiveSubscription(ctx context.Context, factoryID uuid.UUID) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, factoryIDs []uuid.UUID) ([]*models.Subscription, error)
	ListAllSubscriptions(ctx context.Context) ([]*models.Subscription, error)
	GetEntrepreneurFactoryIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Cache описывает контракт кэша подписок.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует бизнес-логику работы с подписками.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

func cacheKey(factoryID uuid.UUID) string {
	return fmt.Sprintf("subscription:active:%s", factoryID)
}

// ActiveForFactory возвращает текущую подписку завода или nil, если
// активной подписки нет. Отсутствие подписки — штатное состояние,
// его интерпретирует проверка лимита, а не этот метод.
func (s *Service) ActiveForFactory(ctx context.Context, factoryID uuid.UUID) (*models.Subscription, error) {
	key := cacheKey(factoryID)

	var cached models.Subscription
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("subscription cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := s.repo.FindActiveSubscription(ctx, factoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, sub, cacheTTL); err != nil {
		s.log.Warn("subscription cache write failed", sl.Err(err))
	}
	return sub, nil
}

// List возвращает подписки в пределах области видимости пользователя.
func (s *Service) List(ctx context.Context, user models.User) ([]*models.Subscription, error) {
	scope, err := s.resolveScope(ctx, user)
	if err != nil {
		return nil, err
	}
	if scope.All {
		return s.repo.ListAllSubscriptions(ctx)
	}
	if scope.MatchesNothing() {
		return []*models.Subscription{}, nil
	}
	return s.repo.ListSubscriptions(ctx, scope.FactoryIDs)
}

// Plans возвращает справочник тарифов. Справочник статичен
// и не требует аутентификации.
func (s *Service) Plans() []models.PlanInfo {
	basicLimit := 10
	analyticsLimit := 50
	return []models.PlanInfo{
		{
			Code:           models.PlanBasic,
			Name:           "Базовый",
			Price:          150000,
			Currency:       "KZT",
			EquipmentLimit: &basicLimit,
			Features: []string{
				"Мониторинг до 10 единиц оборудования",
				"Базовые уведомления",
				"Отчёты раз в месяц",
			},
		},
		{
			Code:           models.PlanAnalytics,
			Name:           "Аналитика",
			Price:          450000,
			Currency:       "KZT",
			EquipmentLimit: &analyticsLimit,
			Features: []string{
				"Мониторинг до 50 единиц оборудования",
				"Прогнозная аналитика",
				"Еженедельные отчёты",
				"Приоритетная поддержка",
			},
		},
		{
			Code:           models.PlanCorporate,
			Name:           "Корпоративный",
			Price:          1200000,
			Currency:       "KZT",
			EquipmentLimit: nil,
			Features: []string{
				"Без ограничения по оборудованию",
				"Полная аналитика и интеграции",
				"Выделенный менеджер",
				"SLA 99.9%",
			},
		},
	}
}

func (s *Service) resolveScope(ctx context.Context, user models.User) (access.Scope, error) {
	if user.Role != models.RoleAdmin && user.FactoryID == nil {
		ids, err := s.repo.GetEntrepreneurFactoryIDs(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return access.Scope{}, err
		}
		return access.ResolveEntrepreneurScope(user, ids), nil
	}
	return access.ResolveScope(user), nil
}
