// Package repository реализует хранилище данных на основе PostgreSQL
// для платформы промышленного мониторинга: пользователи, заводы,
// подписки, оборудование, заявки на роль руководителя и ИП.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound возвращается, когда запись с указанным идентификатором отсутствует.
var ErrNotFound = errors.New("record not found")

// ErrConflict — базовая ошибка нарушения уникальности.
var ErrConflict = errors.New("uniqueness conflict")

// ErrInvalidState — базовая ошибка недопустимого перехода статуса заявки.
var ErrInvalidState = errors.New("invalid application state")

// ConflictError описывает нарушение уникальности с указанием поля.
type ConflictError struct {
	Field string // Поле, по которому возник конфликт: email или username
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrConflict).
func (e *ConflictError) Unwrap() error { return ErrConflict }

// InvalidStateError описывает попытку перехода заявки из терминального статуса.
type InvalidStateError struct {
	Current  string // Текущий статус заявки
	Expected string // Статус, из которого переход разрешён
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("application status is %q, expected %q", e.Current, e.Expected)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrInvalidState).
func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с доменными сущностями платформы.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// asConflict преобразует нарушение уникального индекса PostgreSQL
// в ConflictError с именем поля; остальные ошибки возвращает как есть.
// Уникальность email и username обеспечивается индексами в схеме,
// а не предварительной проверкой: только так два конкурентных одобрения
// с одинаковым username не пройдут оба.
func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key", "applications_email_key", "entrepreneurs_email_key":
		return &ConflictError{Field: "email"}
	case "users_username_key":
		return &ConflictError{Field: "username"}
	}
	return &ConflictError{Field: pgErr.ConstraintName}
}
