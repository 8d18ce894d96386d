// Package models содержит доменные структуры платформы промышленного мониторинга:
// пользователей, заводы, подписки, оборудование и заявки на роль руководителя.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role — закрытое перечисление ролей пользователя.
// Роль проверяется на каждом пути принятия решения о доступе,
// привилегии никогда не выводятся из отсутствия привязки к заводу.
type Role string

const (
	// RoleAdmin — администратор платформы, видит все заводы.
	RoleAdmin Role = "admin"
	// RoleManager — руководитель завода.
	RoleManager Role = "manager"
	// RoleEngineer — инженер завода.
	RoleEngineer Role = "engineer"
	// RoleOperator — оператор оборудования.
	RoleOperator Role = "operator"
	// RoleViewer — наблюдатель, только чтение.
	RoleViewer Role = "viewer"
)

// ParseRole преобразует строку из хранилища в Role.
// Неизвестная роль — ошибка: запись с испорченной ролью не получает никаких прав.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEngineer, RoleOperator, RoleViewer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"` // Электронная почта
	Password string `json:"password" validate:"required"`    // Пароль
}

// User представляет пользователя системы.
// FactoryID равен nil только у администраторов и у записей,
// ещё не привязанных к заводу; такие не-админы не видят ничего.
type User struct {
	ID           uuid.UUID  // Уникальный идентификатор пользователя
	Email        string     // Электронная почта (уникальная)
	Username     string     // Имя пользователя (уникальное)
	PasswordHash string     // Bcrypt-хэш пароля
	FullName     string     // ФИО
	Phone        string     // Телефон
	Position     string     // Должность
	Role         Role       // Роль пользователя
	FactoryID    *uuid.UUID // Привязка к заводу, nil — нет привязки
	IsActive     bool       // Активен ли аккаунт
	IsVerified   bool       // Подтверждён ли аккаунт
	LastLoginAt  *time.Time // Время последнего входа
	CreatedAt    time.Time  // Время создания записи
}
