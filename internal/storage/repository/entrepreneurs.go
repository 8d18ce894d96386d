package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetEntrepreneurFactoryIDs возвращает заводы, связанные с активным ИП,
// к которому привязан аккаунт пользователя. Пустой список означает,
// что пользователь не является аккаунтом ИП.
func (s *Storage) GetEntrepreneurFactoryIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const op = "storage.GetEntrepreneurFactoryIDs"

	query := `SELECT ef.factory_id
			  FROM entrepreneurs e
			  JOIN entrepreneur_factories ef ON ef.entrepreneur_id = e.id
			  WHERE e.user_id = $1 AND e.is_active = TRUE`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
