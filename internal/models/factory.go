package models

import (
	"time"

	"github.com/google/uuid"
)

// Factory представляет завод — единицу арендатора (тенанта).
// Всё оборудование завода принадлежит ему и удаляется вместе с ним.
type Factory struct {
	ID             uuid.UUID // Уникальный идентификатор завода
	Name           string    // Название завода
	Region         string    // Регион
	City           string    // Город
	DirectorName   string    // ФИО директора
	Phone          string    // Телефон
	Email          string    // Электронная почта
	EquipmentCount int       // Кэшированное число единиц оборудования
	EmployeeCount  int       // Число сотрудников
	Status         string    // Статус завода: active, suspended
	CreatedAt      time.Time // Время создания записи
}
