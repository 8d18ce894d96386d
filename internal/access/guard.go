package access

import (
	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/models"
)

// CheckFactoryAccess проверяет, может ли пользователь работать
// с данными завода targetFactoryID.
//
// Администратору доступ разрешён всегда. Остальным — только к своему
// заводу; отсутствие привязки означает отказ. Вызывается на каждом
// чтении деталей и каждой мутации ресурса, несущего factory_id,
// причём с factory_id самой записи, а не из параметров запроса.
func CheckFactoryAccess(user models.User, targetFactoryID uuid.UUID) error {
	if user.Role == models.RoleAdmin {
		return nil
	}
	if user.FactoryID == nil {
		return &ForbiddenError{Reason: ReasonNotAffiliated}
	}
	if *user.FactoryID != targetFactoryID {
		return &ForbiddenError{Reason: ReasonCrossTenant}
	}
	return nil
}

// CheckScopeAccess проверяет доступ к заводу по уже вычисленной области
// видимости. Используется там, где область шире одного завода (ИП).
func CheckScopeAccess(scope Scope, targetFactoryID uuid.UUID) error {
	if scope.Allows(targetFactoryID) {
		return nil
	}
	if scope.MatchesNothing() {
		return &ForbiddenError{Reason: ReasonNotAffiliated}
	}
	return &ForbiddenError{Reason: ReasonCrossTenant}
}

// CheckRole проверяет, что роль пользователя входит в список разрешённых.
// Пустой список разрешённых ролей запрещает всё.
func CheckRole(user models.User, allowed ...models.Role) error {
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return &ForbiddenError{Reason: ReasonRoleNotAllowed}
}
