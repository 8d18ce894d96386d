package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/models"
)

const subscriptionColumns = `id, factory_id, plan, start_date, end_date,
			      equipment_limit, equipment_count, is_trial, is_active, created_at`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var plan string
	var limit sql.NullInt64
	if err := row.Scan(&sub.ID, &sub.FactoryID, &plan, &sub.StartDate, &sub.EndDate,
		&limit, &sub.EquipmentCount, &sub.IsTrial, &sub.IsActive, &sub.CreatedAt); err != nil {
		return nil, err
	}
	sub.Plan = models.Plan(plan)
	if limit.Valid {
		l := int(limit.Int64)
		sub.EquipmentLimit = &l
	}
	return sub, nil
}

// FindActiveSubscription возвращает текущую подписку завода:
// последнюю созданную активную подписку, срок которой ещё не истёк.
// Если такой нет, возвращает ErrNotFound.
func (s *Storage) FindActiveSubscription(ctx context.Context, factoryID uuid.UUID) (*models.Subscription, error) {
	const op = "storage.FindActiveSubscription"

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE factory_id = $1
			    AND is_active = TRUE
			    AND end_date >= CURRENT_DATE
			  ORDER BY created_at DESC
			  LIMIT 1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, factoryID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListSubscriptions возвращает подписки заводов из набора factoryIDs.
func (s *Storage) ListSubscriptions(ctx context.Context, factoryIDs []uuid.UUID) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"

	ids := make([]string, len(factoryIDs))
	for i, id := range factoryIDs {
		ids[i] = id.String()
	}
	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE factory_id = ANY($1::uuid[])
			  ORDER BY created_at DESC`
	return s.listSubscriptions(ctx, op, query, ids)
}

// ListAllSubscriptions возвращает подписки всех заводов.
func (s *Storage) ListAllSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  ORDER BY created_at DESC`
	return s.listSubscriptions(ctx, op, query)
}

func (s *Storage) listSubscriptions(ctx context.Context, op, query string, args ...any) ([]*models.Subscription, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
