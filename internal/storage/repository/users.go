package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/models"
)

const userColumns = `id, email, username, password_hash, full_name, phone, position,
			      role, factory_id, is_active, is_verified, last_login_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var roleStr string
	var factoryID uuid.NullUUID
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName,
		&u.Phone, &u.Position, &roleStr, &factoryID, &u.IsActive, &u.IsVerified,
		&lastLogin, &u.CreatedAt); err != nil {
		return nil, err
	}
	role, err := models.ParseRole(roleStr)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if factoryID.Valid {
		u.FactoryID = &factoryID.UUID
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return u, nil
}

// GetUser возвращает пользователя по его идентификатору.
func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по электронной почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateLastLogin обновляет время последнего входа пользователя.
func (s *Storage) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "storage.UpdateLastLogin"

	query := `UPDATE users
			  SET last_login_at = $1
			  WHERE id = $2`
	if _, err := s.DB.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
