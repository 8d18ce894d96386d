package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/models"
)

const equipmentColumns = `id, factory_id, name, serial_number, workshop, line,
			      manufacturer, model, status, health_score, created_at`

func scanEquipment(row interface{ Scan(...any) error }) (*models.Equipment, error) {
	e := &models.Equipment{}
	var health sql.NullFloat64
	if err := row.Scan(&e.ID, &e.FactoryID, &e.Name, &e.SerialNumber, &e.Workshop,
		&e.Line, &e.Manufacturer, &e.Model, &e.Status, &health, &e.CreatedAt); err != nil {
		return nil, err
	}
	if health.Valid {
		e.HealthScore = &health.Float64
	}
	return e, nil
}

// GetEquipment возвращает единицу оборудования по её идентификатору.
// Проверка доступа выполняется вызывающим по FactoryID возвращённой записи.
func (s *Storage) GetEquipment(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	const op = "storage.GetEquipment"

	query := `SELECT ` + equipmentColumns + `
			  FROM equipment
			  WHERE id = $1`
	e, err := scanEquipment(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListEquipment возвращает оборудование заводов из набора factoryIDs
// с фильтрами по статусу и названию.
func (s *Storage) ListEquipment(ctx context.Context, factoryIDs []uuid.UUID, filter models.EquipmentFilter) ([]*models.Equipment, error) {
	const op = "storage.ListEquipment"

	ids := make([]string, len(factoryIDs))
	for i, id := range factoryIDs {
		ids[i] = id.String()
	}
	query := `SELECT ` + equipmentColumns + `
			  FROM equipment
			  WHERE factory_id = ANY($1::uuid[])
			    AND ($2 = '' OR status = $2)
			    AND ($3 = '' OR name ILIKE '%' || $3 || '%')
			  ORDER BY name
			  LIMIT $4 OFFSET $5`
	return s.listEquipment(ctx, op, query, ids, filter.Status, filter.Search, filter.Limit, filter.Offset)
}

// ListAllEquipment возвращает оборудование всех заводов с теми же фильтрами.
func (s *Storage) ListAllEquipment(ctx context.Context, filter models.EquipmentFilter) ([]*models.Equipment, error) {
	const op = "storage.ListAllEquipment"

	query := `SELECT ` + equipmentColumns + `
			  FROM equipment
			  WHERE ($1::uuid IS NULL OR factory_id = $1)
			    AND ($2 = '' OR status = $2)
			    AND ($3 = '' OR name ILIKE '%' || $3 || '%')
			  ORDER BY name
			  LIMIT $4 OFFSET $5`
	return s.listEquipment(ctx, op, query, filter.FactoryID, filter.Status, filter.Search, filter.Limit, filter.Offset)
}

func (s *Storage) listEquipment(ctx context.Context, op, query string, args ...any) ([]*models.Equipment, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountEquipment возвращает число единиц оборудования завода.
// Используется как входное значение для проверки лимита подписки.
func (s *Storage) CountEquipment(ctx context.Context, factoryID uuid.UUID) (int, error) {
	const op = "storage.CountEquipment"

	var count int
	query := `SELECT COUNT(*) FROM equipment WHERE factory_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, factoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateEquipment сохраняет новую единицу оборудования и возвращает её ID.
func (s *Storage) CreateEquipment(ctx context.Context, e models.Equipment) (uuid.UUID, error) {
	const op = "storage.CreateEquipment"

	var newID uuid.UUID
	query := `INSERT INTO equipment (factory_id, name, serial_number, workshop, line,
			      manufacturer, model, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		e.FactoryID, e.Name, e.SerialNumber, e.Workshop, e.Line,
		e.Manufacturer, e.Model, e.Status).Scan(&newID); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
