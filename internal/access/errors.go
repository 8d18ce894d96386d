// Package access реализует слой контроля доступа платформы:
// вычисление области видимости арендатора, проверку доступа к заводу,
// проверку роли и проверку лимита оборудования по подписке.
//
// Все функции пакета — чистые синхронные функции без побочных эффектов,
// их можно вызывать из любого числа обработчиков без координации.
package access

import (
	"errors"
	"fmt"
)

// ErrForbidden — базовая ошибка отказа в доступе.
// Конкретная причина передаётся через ForbiddenError.
var ErrForbidden = errors.New("access forbidden")

// ErrQuotaExceeded — базовая ошибка превышения лимита подписки.
var ErrQuotaExceeded = errors.New("quota exceeded")

// Причины отказа в доступе.
const (
	// ReasonNotAffiliated — пользователь не привязан ни к одному заводу.
	ReasonNotAffiliated = "user is not affiliated with any factory"
	// ReasonCrossTenant — попытка доступа к данным чужого завода.
	ReasonCrossTenant = "cross-tenant access denied"
	// ReasonRoleNotAllowed — роль пользователя не входит в список разрешённых.
	ReasonRoleNotAllowed = "role is not permitted for this operation"
)

// ForbiddenError описывает отказ в доступе с человекочитаемой причиной.
type ForbiddenError struct {
	Reason string // Причина отказа
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrForbidden).
func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// QuotaExceededError описывает превышение лимита оборудования.
// Limit и Count возвращаются вызывающему, чтобы тот мог
// предложить пользователю обновление подписки.
type QuotaExceededError struct {
	Limit int // Лимит оборудования по подписке
	Count int // Текущее число единиц оборудования
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("equipment limit reached: %d of %d", e.Count, e.Limit)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrQuotaExceeded).
func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }
