package access

import (
	"github.com/erzhanov/factory-monitor/internal/models"
)

// CheckEquipmentQuota проверяет, позволяет ли подписка завода добавить
// ещё одну единицу оборудования при текущем количестве currentCount.
//
// Администратор не ограничен и подписка для него не запрашивается.
// sub — текущая активная подписка завода, nil означает её отсутствие:
// в этом случае добавление оборудования не-админам запрещено.
// Подписка с нулевым указателем лимита (корпоративный тариф) безлимитна.
//
// Функция только принимает решение: ничего не сохраняет и не считает.
func CheckEquipmentQuota(user models.User, sub *models.Subscription, currentCount int) error {
	if user.Role == models.RoleAdmin {
		return nil
	}
	if sub == nil {
		return &QuotaExceededError{Limit: 0, Count: currentCount}
	}
	if sub.EquipmentLimit == nil {
		return nil
	}
	if currentCount >= *sub.EquipmentLimit {
		return &QuotaExceededError{Limit: *sub.EquipmentLimit, Count: currentCount}
	}
	return nil
}
