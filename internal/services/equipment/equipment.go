// Package equipment содержит бизнес-логику работы с оборудованием:
// выборку в пределах области видимости пользователя и регистрацию
// новых единиц с проверкой лимита подписки.
package equipment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/metrics"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// Repository описывает контракт хранилища для работы с оборудованием.
type Repository interface {
	GetEquipment(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	ListEquipment(ctx context.Context, factoryIDs []uuid.UUID, filter models.EquipmentFilter) ([]*models.Equipment, error)
	ListAllEquipment(ctx context.Context, filter models.EquipmentFilter) ([]*models.Equipment, error)
	CountEquipment(ctx context.Context, factoryID uuid.UUID) (int, error)
	CreateEquipment(ctx context.Context, e models.Equipment) (uuid.UUID, error)
	GetEntrepreneurFactoryIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// SubscriptionFinder возвращает текущую подписку завода.
type SubscriptionFinder interface {
	ActiveForFactory(ctx context.Context, factoryID uuid.UUID) (*models.Subscription, error)
}

// Service реализует бизнес-логику работы с оборудованием.
type Service struct {
	repo Repository
	subs SubscriptionFinder
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, subs SubscriptionFinder, log *slog.Logger) *Service {
	return &Service{repo: repo, subs: subs, log: log}
}

// List возвращает оборудование в пределах области видимости пользователя.
// Пустая область возвращает пустой список, а не ошибку.
func (s *Service) List(ctx context.Context, user models.User, filter models.EquipmentFilter) ([]*models.Equipment, error) {
	scope, err := s.resolveScope(ctx, user)
	if err != nil {
		return nil, err
	}
	if scope.All {
		return s.repo.ListAllEquipment(ctx, filter)
	}
	if scope.MatchesNothing() {
		return []*models.Equipment{}, nil
	}
	return s.repo.ListEquipment(ctx, scope.FactoryIDs, filter)
}

// Read возвращает единицу оборудования. Доступ проверяется по заводу
// самой записи: чужое оборудование недоступно даже по известному ID.
func (s *Service) Read(ctx context.Context, user models.User, id uuid.UUID) (*models.Equipment, error) {
	e, err := s.repo.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := s.resolveScope(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := access.CheckScopeAccess(scope, e.FactoryID); err != nil {
		metrics.AccessDenied.WithLabelValues("forbidden").Inc()
		return nil, err
	}
	return e, nil
}

// Create регистрирует новую единицу оборудования. Помимо проверки
// принадлежности к заводу, для не-админов проверяется лимит текущей
// подписки: без активной подписки или при исчерпанном лимите
// регистрация запрещена. Админ лимитом не ограничен.
func (s *Service) Create(ctx context.Context, user models.User, req models.DummyEquipment) (uuid.UUID, error) {
	factoryID, err := uuid.Parse(req.FactoryID)
	if err != nil {
		return uuid.Nil, repository.ErrNotFound
	}
	if err := s.checkFactoryAccess(ctx, user, factoryID); err != nil {
		metrics.AccessDenied.WithLabelValues("forbidden").Inc()
		return uuid.Nil, err
	}

	if user.Role != models.RoleAdmin {
		count, err := s.repo.CountEquipment(ctx, factoryID)
		if err != nil {
			return uuid.Nil, err
		}
		sub, err := s.subs.ActiveForFactory(ctx, factoryID)
		if err != nil {
			return uuid.Nil, err
		}
		if err := access.CheckEquipmentQuota(user, sub, count); err != nil {
			metrics.AccessDenied.WithLabelValues("quota_exceeded").Inc()
			return uuid.Nil, err
		}
	}

	e := models.Equipment{
		FactoryID:    factoryID,
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Workshop:     req.Workshop,
		Line:         req.Line,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		Status:       "operational",
	}

	id, err := s.repo.CreateEquipment(ctx, e)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("equipment registered",
		slog.String("id", id.String()),
		slog.String("factory_id", factoryID.String()))
	return id, nil
}

// resolveScope вычисляет область видимости. Для пользователя без
// привязки к заводу дополнительно проверяется связь с ИП: его заводы
// образуют область из нескольких заводов.
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

func (s *Service) checkFactoryAccess(ctx context.Context, user models.User, factoryID uuid.UUID) error {
	if user.Role != models.RoleAdmin && user.FactoryID == nil {
		scope, err := s.resolveScope(ctx, user)
		if err != nil {
			return err
		}
		return access.CheckScopeAccess(scope, factoryID)
	}
	return access.CheckFactoryAccess(user, factoryID)
}
