package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/models"
)

const factoryColumns = `id, name, region, city, director_name, phone, email,
			      equipment_count, employee_count, status, created_at`

func scanFactory(row interface{ Scan(...any) error }) (*models.Factory, error) {
	f := &models.Factory{}
	if err := row.Scan(&f.ID, &f.Name, &f.Region, &f.City, &f.DirectorName,
		&f.Phone, &f.Email, &f.EquipmentCount, &f.EmployeeCount, &f.Status,
		&f.CreatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

// GetFactory возвращает завод по его идентификатору.
func (s *Storage) GetFactory(ctx context.Context, id uuid.UUID) (*models.Factory, error) {
	const op = "storage.GetFactory"

	query := `SELECT ` + factoryColumns + `
			  FROM factories
			  WHERE id = $1`
	f, err := scanFactory(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}

// ListFactories возвращает заводы из набора factoryIDs с пагинацией.
func (s *Storage) ListFactories(ctx context.Context, factoryIDs []uuid.UUID, limit, offset int) ([]*models.Factory, error) {
	const op = "storage.ListFactories"

	ids := make([]string, len(factoryIDs))
	for i, id := range factoryIDs {
		ids[i] = id.String()
	}
	query := `SELECT ` + factoryColumns + `
			  FROM factories
			  WHERE id = ANY($1::uuid[])
			  ORDER BY name
			  LIMIT $2 OFFSET $3`
	return s.listFactories(ctx, op, query, ids, limit, offset)
}

// ListAllFactories возвращает все заводы с пагинацией.
func (s *Storage) ListAllFactories(ctx context.Context, limit, offset int) ([]*models.Factory, error) {
	const op = "storage.ListAllFactories"

	query := `SELECT ` + factoryColumns + `
			  FROM factories
			  ORDER BY name
			  LIMIT $1 OFFSET $2`
	return s.listFactories(ctx, op, query, limit, offset)
}

func (s *Storage) listFactories(ctx context.Context, op, query string, args ...any) ([]*models.Factory, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Factory
	for rows.Next() {
		f, err := scanFactory(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FactoryExists проверяет наличие завода с указанным идентификатором.
func (s *Storage) FactoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "storage.FactoryExists"

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM factories WHERE id = $1)`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
