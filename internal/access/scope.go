package access

import (
	"github.com/google/uuid"

	"github.com/erzhanov/factory-monitor/internal/models"
)

// Scope описывает область видимости вызывающего: набор заводов,
// данные которых он может читать и изменять.
//
// При All=true область не ограничена. При All=false разрешены только
// заводы из FactoryIDs; пустой список означает «не совпадает ни с чем».
type Scope struct {
	All        bool        // Полный доступ ко всем заводам
	FactoryIDs []uuid.UUID // Разрешённые заводы при ограниченном доступе
}

// Unrestricted возвращает область без ограничений.
func Unrestricted() Scope {
	return Scope{All: true}
}

// RestrictedTo возвращает область, ограниченную одним заводом.
func RestrictedTo(factoryID uuid.UUID) Scope {
	return Scope{FactoryIDs: []uuid.UUID{factoryID}}
}

// RestrictedToSet возвращает область, ограниченную набором заводов.
// Используется для ИП, владеющих несколькими заводами.
func RestrictedToSet(factoryIDs []uuid.UUID) Scope {
	return Scope{FactoryIDs: factoryIDs}
}

// Allows сообщает, входит ли завод в область видимости.
func (s Scope) Allows(factoryID uuid.UUID) bool {
	if s.All {
		return true
	}
	for _, id := range s.FactoryIDs {
		if id == factoryID {
			return true
		}
	}
	return false
}

// MatchesNothing сообщает, что область не совпадает ни с одним заводом.
func (s Scope) MatchesNothing() bool {
	return !s.All && len(s.FactoryIDs) == 0
}

// ResolveScope вычисляет область видимости аутентифицированного пользователя.
//
// Администратор получает неограниченную область. Остальные — область,
// ограниченную своим заводом. Не-админ без привязки к заводу получает
// область, не совпадающую ни с чем: отсутствие привязки никогда
// не повышает пользователя до полного доступа.
func ResolveScope(user models.User) Scope {
	if user.Role == models.RoleAdmin {
		return Unrestricted()
	}
	if user.FactoryID == nil {
		return RestrictedToSet(nil)
	}
	return RestrictedTo(*user.FactoryID)
}

// ResolveEntrepreneurScope вычисляет область видимости пользователя,
// привязанного к ИП: все заводы, связанные с ИП. Семантика для админа
// и для пустого набора совпадает с ResolveScope.
func ResolveEntrepreneurScope(user models.User, factoryIDs []uuid.UUID) Scope {
	if user.Role == models.RoleAdmin {
		return Unrestricted()
	}
	return RestrictedToSet(factoryIDs)
}
