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

const applicationColumns = `id, full_name, email, phone, plan_code, description, status,
			      created_user_id, created_username, credentials_path,
			      reviewed_by, reviewed_at, rejection_reason, created_at`

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	a := &models.Application{}
	var planCode, createdUsername, credsPath, rejectionReason sql.NullString
	var createdUserID, reviewedBy uuid.NullUUID
	var reviewedAt sql.NullTime
	var status string
	if err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.Phone, &planCode, &a.Description,
		&status, &createdUserID, &createdUsername, &credsPath, &reviewedBy,
		&reviewedAt, &rejectionReason, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Status = models.ApplicationStatus(status)
	if planCode.Valid {
		plan := models.Plan(planCode.String)
		a.PlanCode = &plan
	}
	if createdUserID.Valid {
		a.CreatedUserID = &createdUserID.UUID
	}
	a.CreatedUsername = createdUsername.String
	a.CredentialsPath = credsPath.String
	if reviewedBy.Valid {
		a.ReviewedBy = &reviewedBy.UUID
	}
	if reviewedAt.Valid {
		a.ReviewedAt = &reviewedAt.Time
	}
	a.RejectionReason = rejectionReason.String
	return a, nil
}

// CreateApplication сохраняет новую заявку со статусом new и возвращает её ID.
// Повторная заявка с тем же email отклоняется уникальным индексом.
func (s *Storage) CreateApplication(ctx context.Context, app models.Application) (uuid.UUID, error) {
	const op = "storage.CreateApplication"

	var planCode *string
	if app.PlanCode != nil {
		code := string(*app.PlanCode)
		planCode = &code
	}
	var newID uuid.UUID
	query := `INSERT INTO applications (full_name, email, phone, plan_code, description, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		app.FullName, app.Email, app.Phone, planCode, app.Description,
		string(models.StatusNew)).Scan(&newID); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, asConflict(err))
	}
	return newID, nil
}

// GetApplication возвращает заявку по её идентификатору.
func (s *Storage) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	const op = "storage.GetApplication"

	query := `SELECT ` + applicationColumns + `
			  FROM applications
			  WHERE id = $1`
	a, err := scanApplication(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListApplications возвращает заявки, отсортированные от новых к старым.
// Пустой status означает выборку без фильтра по статусу.
func (s *Storage) ListApplications(ctx context.Context, status string, limit, offset int) ([]*models.Application, error) {
	const op = "storage.ListApplications"

	query := `SELECT ` + applicationColumns + `
			  FROM applications
			  WHERE ($1 = '' OR status = $1)
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ApproveApplication атомарно создаёт пользователя и переводит заявку
// в статус approved. Выполняется в одной транзакции: либо фиксируются
// оба изменения, либо ни одно.
//
// Переход статуса — условное обновление (WHERE status = 'new'):
// из двух конкурентных одобрений одной заявки второе получит
// InvalidStateError. Дубликаты email и username отсекаются уникальными
// индексами и возвращаются как ConflictError.
func (s *Storage) ApproveApplication(ctx context.Context, appID uuid.UUID, user models.User, reviewedBy uuid.UUID, credsPath string) (uuid.UUID, error) {
	const op = "storage.ApproveApplication"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUserID uuid.UUID
	insertUser := `INSERT INTO users (email, username, password_hash, full_name, phone, position,
			      role, factory_id, is_active, is_verified)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id;`
	if err := tx.QueryRowContext(ctx, insertUser,
		user.Email, user.Username, user.PasswordHash, user.FullName, user.Phone,
		user.Position, string(user.Role), user.FactoryID, user.IsActive,
		user.IsVerified).Scan(&newUserID); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, asConflict(err))
	}

	updateApp := `UPDATE applications
			  SET status = $1,
			      created_user_id = $2,
			      created_username = $3,
			      credentials_path = $4,
			      reviewed_by = $5,
			      reviewed_at = $6
			  WHERE id = $7 AND status = $8`
	res, err := tx.ExecContext(ctx, updateApp,
		string(models.StatusApproved), newUserID, user.Username, credsPath,
		reviewedBy, time.Now().UTC(), appID, string(models.StatusNew))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return uuid.Nil, fmt.Errorf("%s: %w", op, s.staleApplication(ctx, appID))
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newUserID, nil
}

// RejectApplication переводит заявку в статус rejected с указанием причины.
// Переход условный: из статуса, отличного от new, возвращается InvalidStateError.
func (s *Storage) RejectApplication(ctx context.Context, appID uuid.UUID, reviewedBy uuid.UUID, reason string) error {
	const op = "storage.RejectApplication"

	query := `UPDATE applications
			  SET status = $1,
			      reviewed_by = $2,
			      reviewed_at = $3,
			      rejection_reason = $4
			  WHERE id = $5 AND status = $6`
	res, err := s.DB.ExecContext(ctx, query,
		string(models.StatusRejected), reviewedBy, time.Now().UTC(), reason,
		appID, string(models.StatusNew))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, s.staleApplication(ctx, appID))
	}
	return nil
}

// staleApplication выясняет, почему условное обновление не затронуло строк:
// заявка либо отсутствует, либо уже рассмотрена.
func (s *Storage) staleApplication(ctx context.Context, appID uuid.UUID) error {
	var status string
	err := s.DB.QueryRowContext(ctx,
		`SELECT status FROM applications WHERE id = $1`, appID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return &InvalidStateError{Current: status, Expected: string(models.StatusNew)}
}
