// Package auth содержит бизнес-логику аутентификации: вход по паролю,
// выпуск сессионного токена и проверку сессии с загрузкой пользователя.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/lib/jwt"
	"github.com/erzhanov/factory-monitor/internal/lib/password"
	"github.com/erzhanov/factory-monitor/internal/lib/sl"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInactiveUser возвращается, когда аккаунт пользователя деактивирован.
// Неактивный пользователь не проходит ни одну проверку доступа.
var ErrInactiveUser = errors.New("user is inactive")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// GetUser возвращает пользователя по идентификатору.
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetUserByEmail возвращает пользователя по электронной почте.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateLastLogin обновляет время последнего входа.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AuthService отвечает за вход в систему и проверку сессионных токенов.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет пароль пользователя, отмечает время входа
// и выпускает сессионный токен.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInactiveUser
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.log.Warn("failed to update last login", sl.Err(err))
	}

	var factoryID string
	if user.FactoryID != nil {
		factoryID = user.FactoryID.String()
	}
	token, err := s.jwtMaker.GenerateToken(user.ID.String(), string(user.Role), factoryID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifySession проверяет токен и возвращает актуального пользователя
// из хранилища. Невалидный токен и отсутствующий пользователь означают
// отказ в аутентификации, неактивный аккаунт — безусловный отказ
// в доступе до каких-либо проверок области видимости.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.VerifySession"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, ErrInactiveUser)
	}
	return user, nil
}
