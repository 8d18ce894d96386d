// Package factory содержит бизнес-логику работы с заводами.
package factory

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

// Repository описывает контракт хранилища для работы с заводами.
type Repository interface {
	GetFactory(ctx context.Context, id uuid.UUID) (*models.Factory, error)
	ListFactories(ctx context.Context, factoryIDs []uuid.UUID, limit, offset int) ([]*models.Factory, error)
	ListAllFactories(ctx context.Context, limit, offset int) ([]*models.Factory, error)
	GetEntrepreneurFactoryIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Service реализует бизнес-логику работы с заводами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List возвращает заводы в пределах области видимости пользователя.
func (s *Service) List(ctx context.Context, user models.User, limit, offset int) ([]*models.Factory, error) {
	scope, err := s.resolveScope(ctx, user)
	if err != nil {
		return nil, err
	}
	if scope.All {
		return s.repo.ListAllFactories(ctx, limit, offset)
	}
	if scope.MatchesNothing() {
		return []*models.Factory{}, nil
	}
	return s.repo.ListFactories(ctx, scope.FactoryIDs, limit, offset)
}

// Read возвращает завод по идентификатору с проверкой области видимости.
func (s *Service) Read(ctx context.Context, user models.User, id uuid.UUID) (*models.Factory, error) {
	f, err := s.repo.GetFactory(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := s.resolveScope(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := access.CheckScopeAccess(scope, f.ID); err != nil {
		metrics.AccessDenied.WithLabelValues("forbidden").Inc()
		return nil, err
	}
	return f, nil
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
