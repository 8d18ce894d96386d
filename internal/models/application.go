package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus — закрытое перечисление статусов заявки.
// Статус монотонен: заявка переходит из StatusNew ровно один раз,
// approved и rejected — терминальные состояния.
type ApplicationStatus string

const (
	// StatusNew — заявка подана и ждёт рассмотрения.
	StatusNew ApplicationStatus = "new"
	// StatusApproved — заявка одобрена, аккаунт руководителя создан.
	StatusApproved ApplicationStatus = "approved"
	// StatusRejected — заявка отклонена с указанием причины.
	StatusRejected ApplicationStatus = "rejected"
)

// Application представляет заявку на роль руководителя завода.
// Поля CreatedUserID, CreatedUsername, ReviewedBy, ReviewedAt заполняются
// только при переходе из статуса new.
type Application struct {
	ID              uuid.UUID         // Уникальный идентификатор заявки
	FullName        string            // ФИО заявителя
	Email           string            // Электронная почта заявителя (уникальная)
	Phone           string            // Телефон заявителя
	PlanCode        *Plan             // Выбранный тарифный план, nil — не указан
	Description     string            // Краткое описание опыта
	Status          ApplicationStatus // Текущий статус заявки
	CreatedUserID   *uuid.UUID        // Созданный при одобрении пользователь
	CreatedUsername string            // Имя пользователя созданного аккаунта
	CredentialsPath string            // Путь к файлу с учётными данными
	ReviewedBy      *uuid.UUID        // Администратор, рассмотревший заявку
	ReviewedAt      *time.Time        // Время рассмотрения
	RejectionReason string            // Причина отклонения
	CreatedAt       time.Time         // Время подачи заявки
}

// DummyApplication используется для приёма данных заявки из JSON-запроса.
type DummyApplication struct {
	FullName    string `json:"full_name" validate:"required"`                              // ФИО заявителя
	Email       string `json:"email" validate:"required,email"`                            // Электронная почта
	Phone       string `json:"phone" validate:"required"`                                  // Телефон
	PlanCode    string `json:"plan_code,omitempty" validate:"omitempty,oneof=basic analytics corporate"` // Тарифный план
	Description string `json:"description,omitempty"`                                      // Описание опыта
}

// DummyApprove используется для приёма данных одобрения заявки из JSON-запроса.
// FactoryID обязателен: завод для нового руководителя выбирает администратор явно.
type DummyApprove struct {
	Username  string `json:"username" validate:"required,alphanum"` // Имя пользователя нового аккаунта
	FactoryID string `json:"factory_id" validate:"required,uuid"`   // Завод нового руководителя
}

// DummyReject используется для приёма причины отклонения заявки из JSON-запроса.
type DummyReject struct {
	Reason string `json:"reason" validate:"required"` // Причина отклонения
}

// ReviewEvent — событие рассмотрения заявки, публикуемое в очередь уведомлений.
type ReviewEvent struct {
	ApplicationID uuid.UUID         `json:"application_id"` // Идентификатор заявки
	Status        ApplicationStatus `json:"status"`         // Новый статус
	Email         string            `json:"email"`          // Почта заявителя
	ReviewedBy    uuid.UUID         `json:"reviewed_by"`    // Администратор
	OccurredAt    time.Time         `json:"occurred_at"`    // Время события
}

// Credentials — учётные данные нового аккаунта, передаваемые
// генератору файла ровно один раз при одобрении заявки.
// Пароль в открытом виде нигде не сохраняется.
type Credentials struct {
	Username string // Имя пользователя
	Password string // Пароль в открытом виде
	Email    string // Электронная почта
}
