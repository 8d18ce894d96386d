package models

import (
	"time"

	"github.com/google/uuid"
)

// Equipment представляет единицу оборудования завода.
// Проверка доступа всегда выполняется по FactoryID самой записи,
// а не по значению из параметров запроса.
type Equipment struct {
	ID           uuid.UUID // Уникальный идентификатор оборудования
	FactoryID    uuid.UUID // Завод-владелец
	Name         string    // Название
	SerialNumber string    // Серийный номер
	Workshop     string    // Цех
	Line         string    // Линия
	Manufacturer string    // Производитель
	Model        string    // Модель
	Status       string    // Статус: operational, maintenance, broken
	HealthScore  *float64  // Оценка состояния, nil — нет данных
	CreatedAt    time.Time // Время создания записи
}

// DummyEquipment используется для приёма данных оборудования из JSON-запроса.
type DummyEquipment struct {
	FactoryID    string `json:"factory_id" validate:"required,uuid"` // Завод-владелец
	Name         string `json:"name" validate:"required"`            // Название
	SerialNumber string `json:"serial_number,omitempty"`             // Серийный номер
	Workshop     string `json:"workshop,omitempty"`                  // Цех
	Line         string `json:"line,omitempty"`                      // Линия
	Manufacturer string `json:"manufacturer,omitempty"`              // Производитель
	Model        string `json:"model,omitempty"`                     // Модель
}

// EquipmentFilter задаёт параметры выборки списка оборудования.
// FactoryID здесь — пожелание вызывающего; фактическая область видимости
// определяется областью доступа пользователя.
type EquipmentFilter struct {
	FactoryID *uuid.UUID // Фильтр по заводу
	Status    string     // Фильтр по статусу
	Search    string     // Поиск по названию
	Limit     int        // Размер страницы
	Offset    int        // Смещение
}
