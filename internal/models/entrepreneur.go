package models

import (
	"time"

	"github.com/google/uuid"
)

// Entrepreneur представляет индивидуального предпринимателя (ИП) —
// владельца арендатора, которому может принадлежать несколько заводов.
// Связь с заводами many-to-many и задаёт область доступа,
// когда аутентифицирован привязанный к ИП пользователь.
type Entrepreneur struct {
	ID         uuid.UUID   // Уникальный идентификатор ИП
	FullName   string      // ФИО
	Email      string      // Электронная почта (уникальная)
	Phone      string      // Телефон
	BIN        string      // Бизнес-идентификационный номер
	PlanCode   Plan        // Тарифный план ИП
	IsActive   bool        // Активен ли ИП
	UserID     *uuid.UUID  // Привязанный аккаунт пользователя
	FactoryIDs []uuid.UUID // Заводы, входящие в область доступа ИП
	CreatedAt  time.Time   // Время создания записи
}
