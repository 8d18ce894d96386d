package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan — закрытое перечисление тарифных планов подписки.
type Plan string

const (
	// PlanBasic — базовый тариф с лимитом оборудования.
	PlanBasic Plan = "basic"
	// PlanAnalytics — аналитический тариф с расширенным лимитом.
	PlanAnalytics Plan = "analytics"
	// PlanCorporate — корпоративный тариф без лимита оборудования.
	PlanCorporate Plan = "corporate"
)

// Subscription представляет подписку завода.
// Текущей считается последняя созданная активная подписка,
// у которой end_date не раньше сегодняшнего дня.
// EquipmentLimit равен nil для безлимитных (корпоративных) подписок.
type Subscription struct {
	ID             uuid.UUID // Уникальный идентификатор подписки
	FactoryID      uuid.UUID // Завод, которому принадлежит подписка
	Plan           Plan      // Тарифный план
	StartDate      time.Time // Дата начала действия
	EndDate        time.Time // Дата окончания действия
	EquipmentLimit *int      // Лимит оборудования, nil — безлимит
	EquipmentCount int       // Число единиц оборудования на момент оформления
	IsTrial        bool      // Пробная ли подписка
	IsActive       bool      // Действует ли подписка
	CreatedAt      time.Time // Время создания записи
}

// PlanInfo описывает тарифный план для публичного каталога тарифов.
type PlanInfo struct {
	Code           Plan     `json:"code"`            // Код тарифа
	Name           string   `json:"name"`            // Название тарифа
	Price          int      `json:"price"`           // Цена в месяц
	Currency       string   `json:"currency"`        // Валюта
	EquipmentLimit *int     `json:"equipment_limit"` // Лимит оборудования, null — безлимит
	Features       []string `json:"features"`        // Список возможностей
}
